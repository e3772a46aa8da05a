package ledger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Log is the append-only audit trail. Every keep/move/quarantine/delete/skip
// decision lands here as one line, so the trail alone can answer "why is this
// file where it is".
type Log struct {
	mu    sync.Mutex
	w     io.Writer
	c     io.Closer
	clock func() time.Time
}

// NewLog writes audit lines to w using clock for the line stamps. A nil
// clock falls back to time.Now.
func NewLog(w io.Writer, clock func() time.Time) *Log {
	if clock == nil {
		clock = time.Now
	}
	return &Log{w: w, clock: clock}
}

// Discard returns an audit log that drops every line. Simulate runs use it
// so rehearsals never pollute the real trail.
func Discard() *Log {
	return NewLog(io.Discard, nil)
}

// Open appends to dir/audit-YYYY-MM-DD.log, creating the file on first use.
// The date comes from clock so batches and their audit file agree on the day.
func Open(dir string, clock func() time.Time) (*Log, error) {
	if clock == nil {
		clock = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	name := fmt.Sprintf("audit-%s.log", clock().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	l := NewLog(f, clock)
	l.c = f
	return l, nil
}

// Close releases the underlying file, if any.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.c == nil {
		return nil
	}
	err := l.c.Close()
	l.c = nil
	return err
}

func (l *Log) line(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return
	}
	stamp := l.clock().UTC().Format(time.RFC3339)
	fmt.Fprintf(l.w, "%s %s\n", stamp, fmt.Sprintf(format, args...))
}

// Keeper records which copy of a duplicate group survives.
func (l *Log) Keeper(path string) {
	l.line("KEEPER: %s", path)
}

// Move records a completed relocation.
func (l *Log) Move(from, to string) {
	l.line("MOVE: %s -> %s", from, to)
}

// Quarantine records a duplicate parked in a dated batch.
func (l *Log) Quarantine(from, to string) {
	l.line("QUARANTINE: %s -> %s", from, to)
}

// Delete records a permanent removal.
func (l *Log) Delete(path string) {
	l.line("DELETE: %s", path)
}

// Review records an item routed to the review area instead of its planned
// destination.
func (l *Log) Review(from, to, reason string) {
	l.line("REVIEW: %s -> %s (%s)", from, to, reason)
}

// ReviewInPlace records an item flagged for review without being moved,
// such as when no free destination name could be found.
func (l *Log) ReviewInPlace(path, reason string) {
	l.line("REVIEW: %s (%s)", path, reason)
}

// SkipProtected records a candidate left untouched because it lives outside
// the managed roots.
func (l *Log) SkipProtected(path string) {
	l.line("SKIP (protected): %s", path)
}

// SkipMissing records a candidate that vanished between planning and
// execution.
func (l *Log) SkipMissing(path string) {
	l.line("SKIP (missing): %s", path)
}

// Skip records any other non-action with its reason.
func (l *Log) Skip(path, reason string) {
	l.line("SKIP: %s (%s)", path, reason)
}
