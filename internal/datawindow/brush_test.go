package datawindow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wandb/wandb/chartsync/internal/datawindow"
)

func TestBrush_SweepSelectsWholeBars(t *testing.T) {
	// 10 bars on a 100-unit plot: each bar is 10 units wide.
	b := datawindow.NewBrush(10, 0, 9)

	b.Begin(22, 100)
	change := b.Move(47, 100)

	// 25% widened to 30% -> start 22, end 52
	assert.InDelta(t, 22, b.Start, 1e-9)
	assert.InDelta(t, 52, b.End, 1e-9)
	assert.Equal(t, datawindow.Change{MinIndex: 2, MaxIndex: 4}, change)

	got, changed := b.Finish()
	assert.True(t, changed)
	assert.Equal(t, change, got)
	assert.InDelta(t, 20, b.Start, 1e-9)
	assert.InDelta(t, 50, b.End, 1e-9)
}

func TestBrush_BackwardSweep(t *testing.T) {
	b := datawindow.NewBrush(10, 0, 9)

	b.Begin(80, 100)
	change := b.Move(55, 100)

	assert.Equal(t, 5, change.MinIndex)
	assert.InDelta(t, 55, b.Start, 1e-9)
}

func TestBrush_TinySweepIsOneBar(t *testing.T) {
	b := datawindow.NewBrush(10, 0, 9)

	b.Begin(31, 100)
	change := b.Move(32, 100)

	assert.InDelta(t, 41, b.End, 1e-9)
	assert.Equal(t, 3, change.MinIndex)
	assert.Equal(t, 3, change.MaxIndex)
}

func TestBrush_PointerClampedToPlot(t *testing.T) {
	b := datawindow.NewBrush(10, 0, 0)

	b.Begin(-40, 100)
	change := b.Move(400, 100)

	assert.Equal(t, datawindow.Change{MinIndex: 0, MaxIndex: 9}, change)
}

func TestBrush_UnchangedSelectionIsNotReported(t *testing.T) {
	b := datawindow.NewBrush(10, 2, 4)

	b.Begin(22, 100)
	b.Move(47, 100)
	_, changed := b.Finish()

	assert.False(t, changed)
}

func TestBrush_FinishWithoutBegin(t *testing.T) {
	b := datawindow.NewBrush(10, 1, 3)

	change, changed := b.Finish()

	assert.False(t, changed)
	assert.Equal(t, datawindow.Change{MinIndex: 1, MaxIndex: 3}, change)
}
