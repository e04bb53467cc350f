package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wandb/wandb/chartsync/internal/chart"
	"github.com/wandb/wandb/chartsync/internal/chartconfig"
)

// statusHeight is the number of rows below the charts.
const statusHeight = 1

// paneRect places one chart on screen.
type paneRect struct {
	top    int
	bounds chart.Bounds
}

// paneRects stacks charts vertically, each below a one-line title, sharing
// the rows above the status line by their relative heights.
func paneRects(specs []chartconfig.Chart, width, height int) []paneRect {
	rects := make([]paneRect, len(specs))
	if len(specs) == 0 {
		return rects
	}

	total := 0
	for _, s := range specs {
		total += max(s.Height, 1)
	}

	avail := max(height-statusHeight, 0)
	row := 0
	for i, s := range specs {
		rows := avail * max(s.Height, 1) / total
		if i == len(specs)-1 {
			rows = avail - row
		}
		rects[i] = paneRect{
			top:    row + 1,
			bounds: chart.Bounds{Width: max(width, 0), Height: max(rows-1, 0)},
		}
		row += rows
	}
	return rects
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Reload):
		if m.reload == nil {
			return nil
		}
		m.loading = true
		reload := m.reload
		return func() tea.Msg {
			cfg, err := reload()
			if err != nil {
				return errMsg{err: err}
			}
			return ReloadMsg{Config: cfg}
		}

	case key.Matches(msg, m.keys.Clear):
		for _, p := range m.panes {
			p.chart.PointerLeave(-1, -1)
		}
		m.hovered = nil
		m.status = ""
	}
	return nil
}

// paneAt finds the chart under the screen cell (x, y) and returns the
// position relative to its container.
func (m *Model) paneAt(x, y int) (*pane, float64, float64) {
	for _, p := range m.panes {
		b := p.viewport.Bounds()
		if y >= p.top && y < p.top+b.Height && x >= 0 && x < b.Width {
			return p, float64(x), float64(y - p.top)
		}
	}
	return nil, 0, 0
}

// handleMouse routes a mouse event to the charts.
//
// A left press on the zoom strip grabs the strip. Elsewhere it starts a
// brush sweep on charts with a brush, or clicks. A sweep released where it
// started is a click. Motion moves the hover cursor, and leaving a chart
// hides it there and on its hover links.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	ev := tea.MouseEvent(msg)

	if p := m.pressed; p != nil {
		x := float64(ev.X)
		switch ev.Action {
		case tea.MouseActionMotion:
			if p.chart.StripDragging() {
				p.chart.DragStrip(x)
			} else {
				p.chart.DragBrush(x)
			}
		case tea.MouseActionRelease:
			m.pressed = nil
			if p.chart.StripDragging() {
				p.chart.ReleaseStrip()
				return
			}
			moved := ev.X != m.pressX
			if moved {
				p.chart.DragBrush(x)
			}
			p.chart.ReleaseBrush()
			if !moved {
				p.chart.Click(x, float64(ev.Y-p.top))
			}
		}
		return
	}

	p, x, y := m.paneAt(ev.X, ev.Y)

	switch ev.Action {
	case tea.MouseActionMotion:
		if m.hovered != nil && m.hovered != p {
			m.hovered.chart.PointerLeave(-1, -1)
		}
		m.hovered = p
		if p != nil {
			p.chart.PointerMove(x, y)
		}

	case tea.MouseActionPress:
		if p == nil || ev.Button != tea.MouseButtonLeft {
			return
		}
		if strip, ok := p.chart.Strip(); ok && strip.Contains(ev.X, ev.Y-p.top) {
			if p.chart.PressStrip(x) {
				m.pressed = p
			}
			return
		}
		if p.chart.PressBrush(x, y) {
			m.pressed, m.pressX = p, ev.X
			return
		}
		p.chart.Click(x, y)
	}
}
