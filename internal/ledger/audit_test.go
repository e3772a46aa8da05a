package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestOpenWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	clock := fixedClock(time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC))

	log, err := Open(dir, clock)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	log.Keeper("/lib/a.txt")
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "audit-2026-08-23.log"))
	if err != nil {
		t.Fatalf("read audit file: %v", err)
	}
	if !strings.Contains(string(raw), "KEEPER: /lib/a.txt") {
		t.Fatalf("audit file missing keeper line: %q", raw)
	}
}

func TestLinePrefixes(t *testing.T) {
	var sb strings.Builder
	log := NewLog(&sb, fixedClock(time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)))

	log.Keeper("/lib/a.txt")
	log.Move("/in/b.txt", "/lib/b.txt")
	log.Quarantine("/in/c.txt", "/q/2026-08-23/c.txt")
	log.Delete("/in/d.txt")
	log.Review("/in/e.txt", "/review/e.txt", "low confidence")
	log.SkipProtected("/media/f.txt")
	log.SkipMissing("/in/g.txt")
	log.Skip("/in/h.txt", "already in place")

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	wantSuffixes := []string{
		"KEEPER: /lib/a.txt",
		"MOVE: /in/b.txt -> /lib/b.txt",
		"QUARANTINE: /in/c.txt -> /q/2026-08-23/c.txt",
		"DELETE: /in/d.txt",
		"REVIEW: /in/e.txt -> /review/e.txt (low confidence)",
		"SKIP (protected): /media/f.txt",
		"SKIP (missing): /in/g.txt",
		"SKIP: /in/h.txt (already in place)",
	}
	if len(lines) != len(wantSuffixes) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(wantSuffixes), sb.String())
	}
	for i, want := range wantSuffixes {
		if !strings.HasSuffix(lines[i], want) {
			t.Fatalf("line %d = %q, want suffix %q", i, lines[i], want)
		}
		if !strings.HasPrefix(lines[i], "2026-08-23T10:00:00Z ") {
			t.Fatalf("line %d = %q, want RFC3339 stamp prefix", i, lines[i])
		}
	}
}

func TestOpenAppendsAcrossReopens(t *testing.T) {
	dir := t.TempDir()
	clock := fixedClock(time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC))

	first, err := Open(dir, clock)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	first.Delete("/in/a.txt")
	first.Close()

	second, err := Open(dir, clock)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	second.Delete("/in/b.txt")
	second.Close()

	raw, err := os.ReadFile(filepath.Join(dir, "audit-2026-08-23.log"))
	if err != nil {
		t.Fatalf("read audit file: %v", err)
	}
	if got := strings.Count(string(raw), "DELETE:"); got != 2 {
		t.Fatalf("expected 2 DELETE lines after reopen, got %d:\n%s", got, raw)
	}
}

func TestDiscardDropsLines(t *testing.T) {
	log := Discard()
	log.Keeper("/lib/a.txt")
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}
