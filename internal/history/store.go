// Package history persists run outcomes to a local SQLite database so past
// runs stay inspectable after their console output is gone.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/solosoyfranco/LibrAIry/internal/ledger"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// modernc.org/sqlite reports SQLITE_BUSY as error code 5.
const (
	busyCode      = 5
	busyAttempts  = 5
	busyBaseDelay = 10 * time.Millisecond
	busyDelayCap  = 200 * time.Millisecond
)

// Run is one recorded run with its counts and full ledger payload.
type Run struct {
	ID          int64
	RunID       string
	Flow        string
	Mode        string
	StartedAt   time.Time
	FinishedAt  time.Time
	Moved       int
	Skipped     int
	Failed      int
	Quarantined int
	Deleted     int
	Reviewed    int
	LedgerJSON  string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	for _, pragma := range [...]string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure sqlite (%s): %w", pragma, err)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun inserts a finished run with its ledger and returns the row id.
func (s *Store) RecordRun(ctx context.Context, led *ledger.Ledger, finishedAt time.Time) (int64, error) {
	if led == nil {
		return 0, errors.New("ledger is nil")
	}
	payload, err := led.JSON()
	if err != nil {
		return 0, fmt.Errorf("encode ledger: %w", err)
	}
	counts := led.Counts()

	res, err := s.exec(
		ctx,
		`INSERT INTO runs (
            run_id, flow, mode, started_at, finished_at,
            moved, skipped, failed, quarantined, deleted, reviewed, ledger_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		led.RunID,
		led.Flow,
		led.Mode,
		led.StartedAt.UTC().Format(time.RFC3339Nano),
		finishedAt.UTC().Format(time.RFC3339Nano),
		counts.Moved,
		counts.Skipped,
		counts.Failed,
		counts.Quarantined,
		counts.Deleted,
		counts.Reviewed,
		string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FindByRunID returns the most recent run whose run id starts with the given
// prefix, so callers can use the short form of a UUID. Returns nil when
// nothing matches.
func (s *Store) FindByRunID(ctx context.Context, runID string) (*Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+runColumns+` FROM runs WHERE run_id LIKE ? || '%' ORDER BY id DESC LIMIT 1`,
		runID,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	return run, nil
}

// PruneOlderThan deletes runs that finished before the cutoff and returns
// how many rows went away.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.exec(
		ctx,
		`DELETE FROM runs WHERE finished_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

const runColumns = "id, run_id, flow, mode, started_at, finished_at, moved, skipped, failed, quarantined, deleted, reviewed, ledger_json"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&run.Flow,
		&run.Mode,
		&startedRaw,
		&finishedRaw,
		&run.Moved,
		&run.Skipped,
		&run.Failed,
		&run.Quarantined,
		&run.Deleted,
		&run.Reviewed,
		&run.LedgerJSON,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTimestamp(startedRaw)
	run.FinishedAt = parseTimestamp(finishedRaw)
	return &run, nil
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func lockedBusy(err error) bool {
	if err == nil {
		return false
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		return coded.Code() == busyCode
	}
	text := err.Error()
	return strings.Contains(text, "SQLITE_BUSY") || strings.Contains(text, "database is locked")
}

// exec runs a write statement, retrying with exponential backoff while the
// database is locked by a concurrent run.
func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	delay := busyBaseDelay
	for attempt := 1; ; attempt++ {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil || attempt >= busyAttempts || !lockedBusy(err) {
			return res, err
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay = min(delay*2, busyDelayCap)
	}
}
