// Package watcher wires fsnotify onto the inbox roots and triggers a run
// once a burst of file activity settles. Large copies emit events for the
// whole duration of the transfer, so the trigger only fires after the
// configured quiet window elapses with no further changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/solosoyfranco/LibrAIry/internal/config"
	"github.com/solosoyfranco/LibrAIry/internal/logging"
)

// TriggerFunc runs once per settled burst. The watcher keeps collecting
// events while it executes; changes that land mid-run schedule a follow-up.
type TriggerFunc func(ctx context.Context)

// Watcher debounces inbox file events into run triggers.
type Watcher struct {
	roots   []string
	settle  time.Duration
	trigger TriggerFunc
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	busy    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a watcher over the configured inbox roots. The settle window
// comes from workflow.watch_settle_seconds and defaults to five seconds.
func New(cfg *config.Config, trigger TriggerFunc, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, errors.New("watcher requires configuration")
	}
	if trigger == nil {
		return nil, errors.New("watcher requires a trigger")
	}
	roots := cfg.ManagedRoots()
	if len(roots) == 0 {
		return nil, errors.New("no inbox directories configured")
	}

	settle := time.Duration(cfg.Workflow.WatchSettleSeconds) * time.Second
	if settle <= 0 {
		settle = 5 * time.Second
	}

	watchLogger := logger
	if watchLogger == nil {
		watchLogger = logging.NewNop()
	} else {
		watchLogger = watchLogger.With(logging.String(logging.FieldComponent, "watcher"))
	}

	return &Watcher{
		roots:   roots,
		settle:  settle,
		trigger: trigger,
		logger:  watchLogger,
	}, nil
}

// Settle reports the quiet window the watcher waits for.
func (w *Watcher) Settle() time.Duration {
	return w.settle
}

// Start begins watching. It fires one immediate trigger so items already
// sitting in the inbox are handled without waiting for new events.
func (w *Watcher) Start(ctx context.Context) error {
	if w == nil {
		return errors.New("watcher unavailable")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, root := range w.roots {
		if _, err := os.Stat(root); err != nil {
			fw.Close()
			return fmt.Errorf("inbox %s: %w", root, err)
		}
		if err := addRecursive(fw, root); err != nil {
			fw.Close()
			return err
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.ctx = runCtx
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop(fw)
	return nil
}

// Stop halts event collection and waits for any in-flight trigger.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) loop(fw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fw.Close()

	w.fire()

	settleTimer := time.NewTimer(w.settle)
	settleTimer.Stop()
	defer settleTimer.Stop()
	pending := false

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("inbox change",
				logging.String("path", ev.Name),
				logging.String("op", ev.Op.String()),
			)
			if ev.Op.Has(fsnotify.Create) {
				w.trackNewDirectory(fw, ev.Name)
			}
			pending = true
			settleTimer.Reset(w.settle)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error; continuing", logging.Error(err))
		case <-settleTimer.C:
			if !pending {
				continue
			}
			if w.busyNow() {
				// A run is still in flight; check again after another window.
				settleTimer.Reset(w.settle)
				continue
			}
			pending = false
			w.fire()
		}
	}
}

// relevant filters out chmod-only events and dotfile noise. Removals and
// renames still count: they change what the next scan would find.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return true
}

// trackNewDirectory extends the watch into directories that appear after
// startup. fsnotify watches are not recursive, and a folder moved into the
// inbox arrives as a single create for its top level.
func (w *Watcher) trackNewDirectory(fw *fsnotify.Watcher, path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := addRecursive(fw, path); err != nil {
		w.logger.Warn("could not watch new directory",
			logging.String("path", path),
			logging.Error(err),
		)
	}
}

func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return fw.Add(path)
	})
}

func (w *Watcher) busyNow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

func (w *Watcher) fire() {
	ctx := w.ctx
	if ctx == nil || ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return
	}
	w.busy = true
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.busy = false
			w.mu.Unlock()
		}()
		w.trigger(ctx)
	}()
}
