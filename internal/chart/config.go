package chart

import (
	"github.com/wandb/wandb/chartsync/internal/axis"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/datawindow"
	"github.com/wandb/wandb/chartsync/internal/linked"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// Series is one data series of a chart.
type Series struct {
	Name  string
	Kind  series.Kind
	Color string

	// XAxis and YAxis index the chart's axis slots.
	XAxis, YAxis int

	// FullData is the whole dataset. Data is the part of it the chart
	// shows, set on every build.
	FullData []series.Point
	Data     []series.Point

	// OnClick is called with the clicked datum of this series.
	OnClick func(ClickEvent)
}

// ClickEvent is a click on the chart resolved to one datum.
type ClickEvent struct {
	Series string
	Index  int
	Value  series.Point
}

// WindowConfig enables the zoom strip.
type WindowConfig struct {
	datawindow.Params

	OnChange func(datawindow.Change)
}

// BrushChange is a committed brush selection.
type BrushChange struct {
	Data               []series.Point
	MinIndex, MaxIndex int
}

// BrushConfig enables range selection on a bar chart overviewing the whole
// dataset of its first series.
type BrushConfig struct {
	// Params gives the initial selection. Without start and end the whole
	// dataset is selected.
	Params datawindow.Params

	OnChange func(BrushChange)
}

// CursorConfig configures hover and click cursors.
type CursorConfig struct {
	Hover bool
	Click bool

	// Default is shown as the click cursor on every build until the next
	// click replaces it.
	Default *series.Point

	// OnClick is called once per click after the series callbacks.
	OnClick func(ClickEvent)

	// OnHover receives the hovered datum of each series, or nil when the
	// cursor is hidden.
	OnHover func([]cursor.HoverPoint)
}

// Links are the charts this chart forwards its changes to.
type Links struct {
	// Hover and Click receive the hover and click cursors.
	Hover []linked.Handle
	Click []linked.Handle

	// Window is re-sliced with the same indexes whenever the data window
	// changes.
	Window linked.Handle

	// Brush has its data window moved onto every committed brush
	// selection.
	Brush linked.Handle
}

// Padding overrides the computed margin on the sides that are set.
type Padding struct {
	Top, Right, Bottom, Left *int
}

func (p Padding) apply(m axis.Margin) axis.Margin {
	if p.Top != nil {
		m.Top = *p.Top
	}
	if p.Right != nil {
		m.Right = *p.Right
	}
	if p.Bottom != nil {
		m.Bottom = *p.Bottom
	}
	if p.Left != nil {
		m.Left = *p.Left
	}
	return m
}

// Config describes a chart.
type Config struct {
	Name string

	XAxes []axis.Spec
	YAxes []axis.Spec

	Series []*Series

	Window *WindowConfig
	Brush  *BrushConfig
	Cursor CursorConfig
	Links  Links

	FixedPadding Padding
}
