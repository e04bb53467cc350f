package cursor

import (
	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// SeriesRef is what the hover payload needs to know about a series.
type SeriesRef struct {
	Name  string
	Color string
	Data  []series.Point

	// FlipX and FlipY are the flip flags of the axes the series is drawn on.
	FlipX, FlipY bool
}

// HoverPoint is the datum of one series under the cursor.
type HoverPoint struct {
	Name  string
	Color string

	// Index is the cursor index; DataIndex the index into the series data.
	Index     int
	DataIndex int

	Point series.Point
}

// Hover collects the hovered datum of every series.
//
// Slots are counted from the top on vertical category axes while data
// grows from the bottom, so the data index is mirrored there unless the
// axis is flipped. On horizontal axes only a flipped axis is mirrored.
// Series too short to have a datum at the mirrored index are skipped.
func Hover(l Layout, index int, refs []SeriesRef) []HoverPoint {
	points := make([]HoverPoint, 0, len(refs))
	for _, ref := range refs {
		di := index
		switch {
		case l.Base == axis.Vertical && !ref.FlipY:
			di = l.Length - 1 - index
		case l.Base == axis.Horizontal && ref.FlipX:
			di = l.Length - 1 - index
		}
		if di < 0 || di >= len(ref.Data) {
			continue
		}

		points = append(points, HoverPoint{
			Name:      ref.Name,
			Color:     ref.Color,
			Index:     index,
			DataIndex: di,
			Point:     ref.Data[di],
		})
	}
	return points
}
