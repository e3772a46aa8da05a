package logging

import (
	"context"
	"log/slog"
	"time"
)

type Attr = slog.Attr

// Typed attribute constructors mirroring slog's, so call sites stay within
// this package's vocabulary.

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error wraps err under the conventional "error" key, tolerating nil.
func Error(err error) Attr {
	if err != nil {
		return slog.Any("error", err)
	}
	return slog.String("error", "<nil>")
}

func attrsToArgs(attrs []Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything. Useful for tests and for
// wiring code that must always have a non-nil logger.
func NewNop() *slog.Logger {
	return slog.New(discardHandler{})
}

// discardHandler matches slog.DiscardHandler, which needs go >= 1.24; this
// toolchain is pinned to go 1.21.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// NewComponentLogger tags every record from the returned logger with the
// given component attribute. A nil base falls back to the nop logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	base := logger
	if base == nil {
		base = NewNop()
	}
	return base.With(String(FieldComponent, component))
}
