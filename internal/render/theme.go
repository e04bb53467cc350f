package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Brand color, also the color of click cursors.
const wandbColor = lipgloss.Color("#FCBC32")

// Palette series fall back to when they have no color of their own.
var graphColors = []string{
	"#E281FE",
	"#ED9FBB",
	"#F6B784",
	"#FFCF4F",
	"#8FD1E8",
	"#A3E2A1",
}

// Theme holds the styles a chart is drawn with.
type Theme struct {
	renderer *lipgloss.Renderer

	Axis    lipgloss.Style
	Grid    lipgloss.Style
	Label   lipgloss.Style
	Hover   lipgloss.Style
	Click   lipgloss.Style
	Strip   lipgloss.Style
	Window  lipgloss.Style
	Handle  lipgloss.Style
	Brush   lipgloss.Style
	Tooltip lipgloss.Style
	Title   lipgloss.Style
}

// NewTheme returns the default theme for output written to w with the
// given color profile.
func NewTheme(w io.Writer, profile termenv.Profile) Theme {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	return Theme{
		renderer: r,
		Axis:     r.NewStyle().Foreground(lipgloss.Color("245")),
		Grid:     r.NewStyle().Foreground(lipgloss.Color("238")),
		Label:    r.NewStyle().Foreground(lipgloss.Color("250")),
		Hover:    r.NewStyle().Background(lipgloss.Color("237")),
		Click:    r.NewStyle().Background(lipgloss.Color("94")).Foreground(wandbColor),
		Strip:    r.NewStyle().Foreground(lipgloss.Color("240")),
		Window:   r.NewStyle().Foreground(lipgloss.Color("111")),
		Handle:   r.NewStyle().Foreground(wandbColor).Bold(true),
		Brush:    r.NewStyle().Background(lipgloss.Color("24")),
		Tooltip:  r.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236")),
		Title:    r.NewStyle().Foreground(wandbColor).Bold(true),
	}
}

// seriesStyle is the foreground style of the i-th series.
func (t Theme) seriesStyle(color string, i int) lipgloss.Style {
	if color == "" {
		color = graphColors[i%len(graphColors)]
	}
	return t.renderer.NewStyle().Foreground(lipgloss.Color(color))
}
