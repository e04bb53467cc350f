// Package wberrors defines the error type used throughout chartsync.
//
// Errors are built with three constructors:
//
//   - Newf creates an error from a formatted message.
//   - Enrichf prefixes another error's message and keeps its attrs and kind,
//     without exposing it to errors.Unwrap (like the `%v` verb).
//   - Bubblef is Enrichf that also exposes the inner error (like `%w`).
//
// Configuration problems are classified with Configf, and callers check for
// them with IsConfiguration:
//
//	if spec.Position != axis.Left && spec.Position != axis.Right {
//		return nil, wberrors.Configf("axis: invalid y position %q", spec.Position).
//			Attr(slog.String("position", string(spec.Position)))
//	}
//
// Never use `fmt.Errorf` to wrap an error, since that drops its attrs and
// kind. Prefer Newf over `errors.New` for fresh errors.
package wberrors

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
)

// Kind classifies an error for callers that need to react to its category.
type Kind int

const (
	// KindUnknown is the zero Kind.
	KindUnknown Kind = iota

	// KindConfiguration marks an invalid chart, axis, window or series
	// configuration. The build that produced it must be abandoned.
	KindConfiguration

	// KindSource marks a failure reading series data from a source.
	KindSource
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSource:
		return "source"
	default:
		return "unknown"
	}
}

// Error is a standard Go error with a kind and structured attributes.
//
// Errors are not safe for concurrent use. Construct and enrich them in a
// single statement with method chaining.
type Error struct {
	msg  string // message or context
	err  error  // wrapped error, only set by Bubblef
	kind Kind

	noSentry bool

	// attrs is structured data included when the error is logged and
	// uploaded as Sentry tags when it is captured.
	attrs map[string]slog.Value
}

// Newf creates a new error using Sprintf to construct the message.
func Newf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Configf creates a new configuration error.
//
// Configuration errors are expected user mistakes and are never uploaded
// to Sentry.
func Configf(format string, args ...any) *Error {
	return &Error{
		msg:      fmt.Sprintf(format, args...),
		kind:     KindConfiguration,
		noSentry: true,
	}
}

// Enrichf adds context to an error without exposing it via errors.Unwrap.
//
// With an empty format, the message is the inner error's message.
// The inner error's kind, attrs and Sentry flag carry over.
func Enrichf(err error, format string, args ...any) *Error {
	return wrap(fmt.Sprintf(format, args...), err, false)
}

// Bubblef is like Enrichf, but the result unwraps to err.
//
// Use it only when callers are expected to inspect the inner error with
// errors.Is or errors.As.
func Bubblef(err error, format string, args ...any) *Error {
	return wrap(fmt.Sprintf(format, args...), err, true)
}

func wrap(msg string, err error, expose bool) *Error {
	if err == nil {
		panic("wberrors: cannot wrap nil error")
	}

	wrapped := &Error{}

	switch {
	case expose:
		wrapped.msg = msg
		wrapped.err = err
	case msg == "":
		wrapped.msg = err.Error()
	default:
		wrapped.msg = fmt.Sprintf("%s: %v", msg, err)
	}

	var inner *Error
	if errors.As(err, &inner) {
		wrapped.kind = inner.kind
		wrapped.noSentry = inner.noSentry
		wrapped.attrs = maps.Clone(inner.attrs)
	}

	return wrapped
}

// Attr attaches a key-value pair to the error and returns it.
//
// An existing attr with the same key is overwritten.
func (e *Error) Attr(attr slog.Attr) *Error {
	if e.attrs == nil {
		e.attrs = make(map[string]slog.Value)
	}

	e.attrs[attr.Key] = attr.Value
	return e
}

// WithKind sets the error's kind and returns it.
func (e *Error) WithKind(kind Kind) *Error {
	e.kind = kind
	return e
}

// SkipSentryIf marks the error as not worth uploading if condition holds.
func (e *Error) SkipSentryIf(condition bool) *Error {
	e.noSentry = e.noSentry || condition
	return e
}

// Error implements error.Error.
func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
}

// Unwrap returns the inner error, if it was bubbled.
func (e *Error) Unwrap() error {
	return e.err
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var wberr *Error
	if errors.As(err, &wberr) {
		return wberr.kind
	}
	return KindUnknown
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return KindOf(err) == KindConfiguration
}

// Attrs returns the slog attrs stored in the error.
func Attrs(err error) []slog.Attr {
	var wberr *Error
	if !errors.As(err, &wberr) {
		return nil
	}

	attrs := make([]slog.Attr, 0, len(wberr.attrs))
	for key, value := range wberr.attrs {
		attrs = append(attrs, slog.Attr{Key: key, Value: value})
	}
	return attrs
}

// Tags returns the error's attrs as Sentry tags.
func Tags(err error) map[string]string {
	var wberr *Error
	if !errors.As(err, &wberr) {
		return nil
	}

	tags := make(map[string]string, len(wberr.attrs)+1)
	for key, value := range wberr.attrs {
		tags[key] = value.String()
	}
	if wberr.kind != KindUnknown {
		tags["error_kind"] = wberr.kind.String()
	}
	return tags
}

// SkipSentry reports whether the error was marked as not worth uploading.
func SkipSentry(err error) bool {
	var wberr *Error
	if errors.As(err, &wberr) {
		return wberr.noSentry
	}
	return false
}
