package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/solosoyfranco/LibrAIry/internal/history"
	"github.com/solosoyfranco/LibrAIry/internal/ledger"
)

func openStore(t *testing.T, path string) *history.Store {
	t.Helper()
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleLedger(runID string, startedAt time.Time) *ledger.Ledger {
	led := ledger.New(runID, "dedupe", "apply", startedAt)
	led.AddQuarantined("/inbox/b.jpg", "/quarantine/2026-08-23/b.jpg", "duplicate of /library/a.jpg")
	led.AddSkipped("/mnt/usb/c.jpg", "protected path")
	return led
}

func TestRecordRunAndRecent(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "history.db"))
	ctx := context.Background()
	base := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)

	for i, runID := range []string{"run-one", "run-two", "run-three"} {
		started := base.Add(time.Duration(i) * time.Hour)
		if _, err := store.RecordRun(ctx, sampleLedger(runID, started), started.Add(time.Minute)); err != nil {
			t.Fatalf("RecordRun(%s) failed: %v", runID, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-three" || runs[1].RunID != "run-two" {
		t.Fatalf("unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].Quarantined != 1 || runs[0].Skipped != 1 {
		t.Fatalf("counts not persisted: %+v", runs[0])
	}
	if !strings.Contains(runs[0].LedgerJSON, "/inbox/b.jpg") {
		t.Fatal("ledger payload not persisted")
	}
	if got := runs[0].StartedAt; !got.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("started at = %v", got)
	}
}

func TestFindByRunIDPrefix(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "history.db"))
	ctx := context.Background()
	started := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)

	if _, err := store.RecordRun(ctx, sampleLedger("a1b2c3d4-0000-4000-8000-000000000000", started), started); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	run, err := store.FindByRunID(ctx, "a1b2")
	if err != nil {
		t.Fatalf("FindByRunID failed: %v", err)
	}
	if run == nil || run.RunID != "a1b2c3d4-0000-4000-8000-000000000000" {
		t.Fatalf("unexpected run: %+v", run)
	}

	missing, err := store.FindByRunID(ctx, "zzzz")
	if err != nil {
		t.Fatalf("FindByRunID(missing) failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown prefix, got %+v", missing)
	}
}

func TestPruneOlderThan(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "history.db"))
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if _, err := store.RecordRun(ctx, sampleLedger("old", base), base); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordRun(ctx, sampleLedger("new", base.AddDate(0, 0, 20)), base.AddDate(0, 0, 20)); err != nil {
		t.Fatal(err)
	}

	removed, err := store.PruneOlderThan(ctx, base.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("PruneOlderThan failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "new" {
		t.Fatalf("surviving runs: %+v", runs)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()
	started := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)

	first := openStore(t, path)
	if _, err := first.RecordRun(ctx, sampleLedger("persisted", started), started); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := openStore(t, path)
	runs, err := second.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "persisted" {
		t.Fatalf("runs after reopen: %+v", runs)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store := openStore(t, path)
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
