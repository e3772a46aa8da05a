package quarantine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	"github.com/solosoyfranco/LibrAIry/internal/logging"
	"github.com/solosoyfranco/LibrAIry/internal/services"
)

// Expired lists the quarantine batches whose date is at least retentionDays
// old, in directory order. A batch's age comes from its directory name, not
// file times: writing into a batch bumps its mtime, which would keep busy
// batches alive indefinitely. The boundary is inclusive, so a batch dated
// exactly retentionDays ago is listed and one dated a day later is not.
// retentionDays <= 0 disables purging, and entries under the root that are
// not dated batch directories are never candidates.
func Expired(root string, retentionDays int, now time.Time) ([]string, error) {
	if retentionDays <= 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrTransient, "purge", "read quarantine root", root, err)
	}

	day := now.UTC()
	cutoff := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -retentionDays)

	var expired []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		batchDate, err := time.Parse(batchLayout, entry.Name())
		if err != nil {
			continue
		}
		if batchDate.After(cutoff) {
			continue
		}
		expired = append(expired, filepath.Join(root, entry.Name()))
	}
	return expired, nil
}

// Purge removes the expired quarantine batches and returns the removed
// paths. Batches that fail to delete are logged and left for the next purge.
func Purge(ctx context.Context, root string, retentionDays int, now time.Time, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.NewNop()
	} else {
		logger = logger.With(logging.String(logging.FieldComponent, "quarantine"))
	}

	expired, err := Expired(root, retentionDays, now)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, path := range expired {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("failed to remove quarantine batch",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		logger.Info("purged quarantine batch", logging.String("path", path))
		removed = append(removed, path)
	}
	return removed, nil
}
