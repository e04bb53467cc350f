package axis

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/mattn/go-runewidth"
)

// Size is the bounding box of a rendered label in surface units.
type Size struct {
	Width, Height int
}

// Measurer reports how much room rendered labels take.
type Measurer interface {
	// Measure returns the bounding box of label.
	Measure(label string) Size

	// Gap is the space kept between the widest label and the plot area.
	Gap() int
}

// Margin is the space reserved around the plot area for axis labels.
type Margin struct {
	Top, Right, Bottom, Left int
}

// Union returns the per-side maximum of m and other.
func (m Margin) Union(other Margin) Margin {
	return Margin{
		Top:    max(m.Top, other.Top),
		Right:  max(m.Right, other.Right),
		Bottom: max(m.Bottom, other.Bottom),
		Left:   max(m.Left, other.Left),
	}
}

const defaultMeasureCacheSize = 512

// CellMeasurer measures labels in terminal cells.
//
// Widths account for wide runes. Results are cached since the same labels
// are measured on every rebuild.
type CellMeasurer struct {
	gap   int
	cache *lru.Cache
}

// NewCellMeasurer returns a measurer keeping gap cells between labels and
// the plot.
func NewCellMeasurer(gap int) *CellMeasurer {
	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New(defaultMeasureCacheSize)
	return &CellMeasurer{gap: gap, cache: cache}
}

func (m *CellMeasurer) Measure(label string) Size {
	if cached, ok := m.cache.Get(label); ok {
		return cached.(Size)
	}

	size := Size{}
	for _, line := range strings.Split(label, "\n") {
		size.Width = max(size.Width, runewidth.StringWidth(line))
		size.Height++
	}
	m.cache.Add(label, size)
	return size
}

func (m *CellMeasurer) Gap() int {
	return m.gap
}

// labelMargin reserves room on the axis side for the largest label.
func labelMargin(pos Position, labels []string, m Measurer) Margin {
	var widest, tallest int
	for _, label := range labels {
		size := m.Measure(label)
		widest = max(widest, size.Width)
		tallest = max(tallest, size.Height)
	}

	switch pos {
	case Top:
		return Margin{Top: tallest + m.Gap()}
	case Bottom:
		return Margin{Bottom: tallest + m.Gap()}
	case Left:
		return Margin{Left: widest + m.Gap()}
	case Right:
		return Margin{Right: widest + m.Gap()}
	default:
		return Margin{}
	}
}
