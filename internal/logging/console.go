package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one human-readable line per record:
//
//	2026-08-23T10:15:04Z INFO mover/dedupe: quarantined count=3
//
// Component and flow attributes are hoisted into the prefix instead of being
// repeated as key=value pairs. Caller locations are appended only when the
// handler was built with caller reporting enabled.
type consoleHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  *slog.LevelVar
	caller bool
	fields []field
	scope  string
}

type field struct {
	key string
	val slog.Value
}

func newConsoleHandler(out io.Writer, level *slog.LevelVar, caller bool) *consoleHandler {
	return &consoleHandler{mu: new(sync.Mutex), out: out, level: level, caller: caller}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// WithAttrs flattens the attributes immediately using the handler's current
// scope, so group prefixes applied later never leak backwards onto them.
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.fields = appendFields(append([]field(nil), h.fields...), h.scope, attrs)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.scope = joinScope(h.scope, name)
	return &clone
}

func (h *consoleHandler) Handle(_ context.Context, rec slog.Record) error {
	if rec.Level < h.level.Level() {
		return nil
	}
	line := h.render(rec)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line)
	return err
}

func (h *consoleHandler) render(rec slog.Record) string {
	fields := make([]field, 0, len(h.fields)+rec.NumAttrs())
	fields = append(fields, h.fields...)
	rec.Attrs(func(attr slog.Attr) bool {
		fields = appendFields(fields, h.scope, []slog.Attr{attr})
		return true
	})
	component, flow, fields := splitHoisted(fields)

	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.Grow(96 + len(fields)*24)
	b.WriteString(ts.UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(levelName(rec.Level))
	b.WriteByte(' ')

	switch {
	case component != "" && flow != "":
		b.WriteString(component)
		b.WriteByte('/')
		b.WriteString(flow)
		b.WriteString(": ")
	case component != "":
		b.WriteString(component)
		b.WriteString(": ")
	case flow != "":
		b.WriteString(flow)
		b.WriteString(": ")
	}

	if msg := strings.TrimSpace(rec.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}

	if h.caller {
		if src := recordSource(rec); src != nil && src.File != "" {
			b.WriteString(" [")
			b.WriteString(filepath.Base(src.File))
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(src.Line))
			b.WriteByte(']')
		}
	}

	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(valueText(f.val))
	}
	b.WriteByte('\n')
	return b.String()
}

// recordSource matches slog.Record.Source, which needs go >= 1.25; this
// toolchain is pinned to go 1.21.
func recordSource(rec slog.Record) *slog.Source {
	if rec.PC == 0 {
		return nil
	}
	frames := runtime.CallersFrames([]uintptr{rec.PC})
	frame, _ := frames.Next()
	return &slog.Source{Function: frame.Function, File: frame.File, Line: frame.Line}
}

// appendFields resolves attrs into flat key/value fields, expanding groups
// into dotted keys under the given scope.
func appendFields(dst []field, scope string, attrs []slog.Attr) []field {
	for _, attr := range attrs {
		attr.Value = attr.Value.Resolve()
		if attr.Equal(slog.Attr{}) {
			continue
		}
		if attr.Value.Kind() == slog.KindGroup {
			next := scope
			if attr.Key != "" {
				next = joinScope(scope, attr.Key)
			}
			dst = appendFields(dst, next, attr.Value.Group())
			continue
		}
		key := joinScope(scope, attr.Key)
		if key == "" {
			continue
		}
		dst = append(dst, field{key: key, val: attr.Value})
	}
	return dst
}

func joinScope(scope, key string) string {
	switch {
	case scope == "":
		return key
	case key == "":
		return scope
	default:
		return scope + "." + key
	}
}

// splitHoisted pulls the first component and flow fields out of the list so
// the prefix shows them exactly once.
func splitHoisted(fields []field) (component, flow string, rest []field) {
	rest = fields[:0]
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			if component == "" {
				component = plainText(f.val)
			}
			continue
		case FieldFlow:
			if flow == "" {
				flow = plainText(f.val)
			}
			continue
		}
		rest = append(rest, f)
	}
	return component, flow, rest
}

// plainText renders a value without quoting, for use inside the line prefix.
func plainText(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	}
	return v.String()
}

func valueText(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	default:
		return quoteIfNeeded(plainText(v))
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
