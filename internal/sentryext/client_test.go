package sentryext

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	assert.Nil(t, New(Params{Disabled: true}))
}

func TestNilClientIsNoOp(t *testing.T) {
	var c *Client

	c.CaptureException(errors.New("boom"), nil)
	c.CaptureMessage("hello", nil)
	assert.True(t, c.Flush(time.Millisecond))
}

func TestShouldCapture_DedupesRecentMessages(t *testing.T) {
	c := New(Params{LRUSize: 4})
	require.NotNil(t, c)

	assert.True(t, c.shouldCapture("axis: invalid position"))
	assert.False(t, c.shouldCapture("axis: invalid position"))
	assert.True(t, c.shouldCapture("window: start > end"))
}

func TestReraise_Panics(t *testing.T) {
	c := New(Params{})
	require.NotNil(t, c)

	assert.PanicsWithValue(t, "bad", func() {
		c.Reraise("bad", nil)
	})
}
