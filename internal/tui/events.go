package tui

import (
	"io"
	"sync"

	"github.com/wandb/simplejsonext"

	"github.com/wandb/wandb/chartsync/internal/chart"
	"github.com/wandb/wandb/chartsync/internal/cursor"
	"github.com/wandb/wandb/chartsync/internal/datawindow"
	"github.com/wandb/wandb/chartsync/internal/observability"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/series"
)

// eventSink writes chart callbacks as JSON lines.
//
// A nil sink drops events.
type eventSink struct {
	mu      sync.Mutex
	w       io.Writer
	emitter simplejsonext.Emitter
	session string
	logger  *observability.CoreLogger
}

func newEventSink(w io.Writer, session string, logger *observability.CoreLogger) *eventSink {
	if w == nil {
		return nil
	}
	return &eventSink{
		w:       w,
		emitter: simplejsonext.NewEmitter(w),
		session: session,
		logger:  logger,
	}
}

func (s *eventSink) emit(event map[string]any) {
	if s == nil {
		return
	}
	if s.session != "" {
		event["session"] = s.session
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.emitter.Emit(event); err != nil {
		s.logger.CaptureError(wberrors.Enrichf(err, "tui: writing event"))
		return
	}
	if _, err := io.WriteString(s.w, "\n"); err != nil {
		s.logger.CaptureError(wberrors.Enrichf(err, "tui: writing event"))
	}
}

func pointJSON(p series.Point) map[string]any {
	out := map[string]any{"x": valueJSON(p.X), "y": valueJSON(p.Y)}
	for k, v := range p.Fields {
		if k != "x" && k != "y" {
			out[k] = v
		}
	}
	return out
}

func valueJSON(v series.Value) any {
	if v.Numeric {
		return v.Num
	}
	return v.Str
}

func (s *eventSink) click(name string, ev chart.ClickEvent) {
	s.emit(map[string]any{
		"event":  "click",
		"chart":  name,
		"series": ev.Series,
		"index":  ev.Index,
		"value":  pointJSON(ev.Value),
	})
}

func (s *eventSink) window(name string, ch datawindow.Change) {
	s.emit(map[string]any{
		"event":    "window",
		"chart":    name,
		"minIndex": ch.MinIndex,
		"maxIndex": ch.MaxIndex,
	})
}

func (s *eventSink) brush(name string, ch chart.BrushChange) {
	data := make([]any, len(ch.Data))
	for i, p := range ch.Data {
		data[i] = pointJSON(p)
	}
	s.emit(map[string]any{
		"event":    "brush",
		"chart":    name,
		"minIndex": ch.MinIndex,
		"maxIndex": ch.MaxIndex,
		"data":     data,
	})
}

func (s *eventSink) hover(name string, points []cursor.HoverPoint) {
	if s == nil {
		return
	}
	hovered := make([]any, len(points))
	for i, p := range points {
		hovered[i] = map[string]any{
			"series": p.Name,
			"index":  p.DataIndex,
			"value":  pointJSON(p.Point),
		}
	}
	s.emit(map[string]any{"event": "hover", "chart": name, "points": hovered})
}
