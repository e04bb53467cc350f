package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/sentryext"
)

// Tags are key-value pairs attached to every message of a logger and
// uploaded with captured events.
type Tags map[string]string

// NewTags builds Tags from slog.Attr values and string-keyed pairs.
//
// Incomplete pairs and other types are ignored.
func NewTags(args ...any) Tags {
	tags := Tags{}
	for len(args) > 0 {
		switch x := args[0].(type) {
		case slog.Attr:
			tags[x.Key] = x.Value.String()
			args = args[1:]
		case string:
			if len(args) < 2 {
				return tags
			}
			tags[x] = slog.AnyValue(args[1]).String()
			args = args[2:]
		default:
			args = args[1:]
		}
	}
	return tags
}

// LevelPanic is the level of messages logged for recovered panics.
const LevelPanic = slog.Level(12)

type CoreLoggerParams struct {
	Sentry *sentryext.Client
	Tags   Tags
}

// CoreLogger is a slog.Logger that can also report to Sentry.
type CoreLogger struct {
	*slog.Logger
	baseTags Tags
	sentry   *sentryext.Client
}

func NewCoreLogger(logger *slog.Logger, params *CoreLoggerParams) *CoreLogger {
	if params == nil {
		params = &CoreLoggerParams{}
	}

	tags := Tags{}
	var args []any
	for key, value := range params.Tags {
		args = append(args, slog.String(key, value))
		tags[key] = value
	}

	return &CoreLogger{
		Logger:   logger.With(args...),
		baseTags: tags,
		sentry:   params.Sentry,
	}
}

// eventTags merges the logger's base tags over the given args.
func (cl *CoreLogger) eventTags(args ...any) Tags {
	tags := NewTags(args...)
	for key, value := range cl.baseTags {
		tags[key] = value
	}
	return tags
}

// With returns a derived logger that includes the given args in each message.
func (cl *CoreLogger) With(args ...any) *CoreLogger {
	return &CoreLogger{
		Logger:   cl.Logger.With(args...),
		baseTags: cl.baseTags,
		sentry:   cl.sentry,
	}
}

// CaptureError logs an error and sends it to Sentry.
//
// Attrs stored on the error are logged alongside args. Errors marked with
// SkipSentryIf are only logged.
func (cl *CoreLogger) CaptureError(err error, args ...any) {
	for _, attr := range wberrors.Attrs(err) {
		args = append(args, attr)
	}
	cl.Error(err.Error(), args...)

	if wberrors.SkipSentry(err) {
		return
	}

	tags := cl.eventTags(args...)
	for key, value := range wberrors.Tags(err) {
		tags[key] = value
	}
	cl.sentry.CaptureException(err, tags)
}

// CaptureWarn logs a warning and sends the message to Sentry.
//
// For conditions the caller recovers from.
func (cl *CoreLogger) CaptureWarn(msg string, args ...any) {
	cl.Warn(msg, args...)
	cl.sentry.CaptureMessage(msg, cl.eventTags(args...))
}

// Reraise reports a panic to Sentry and re-panics.
//
// It must be deferred directly.
func (cl *CoreLogger) Reraise(args ...any) {
	if err := recover(); err != nil {
		cl.Log(context.Background(), LevelPanic, "panic", "panic", err)
		if cl.sentry == nil {
			panic(err)
		}
		cl.sentry.Reraise(err, cl.eventTags(args...))
	}
}

// Tags returns the logger's base tags.
func (cl *CoreLogger) Tags() Tags {
	return cl.baseTags
}

// NewNoOpLogger returns a logger that discards all messages.
//
// Used for testing.
func NewNoOpLogger() *CoreLogger {
	return NewCoreLogger(
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
		nil,
	)
}
