package scene

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/timeouts"
)

// Watcher calls Reload whenever the scene file is written or replaced.
// Bursts of events within the debounce window trigger a single reload.
type Watcher struct {
	log      logger.LoggerInterface
	path     string
	debounce time.Duration
	reload   func()
}

// NewWatcher watches path. A debounce of zero selects
// timeouts.ReloadDebounce.
func NewWatcher(log logger.LoggerInterface, path string, debounce time.Duration, reload func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving scene path: %w", err)
	}

	if debounce <= 0 {
		debounce = timeouts.ReloadDebounce
	}

	return &Watcher{
		log:      log.With(slog.String("component", "scene-watcher")),
		path:     abs,
		debounce: debounce,
		reload:   reload,
	}, nil
}

// Serve watches until ctx is done. The directory is watched rather than the
// file so editors that save by renaming over it are still seen.
func (w *Watcher) Serve(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.log.Debug("Watching scene file", slog.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(ev) {
				continue
			}

			w.log.Trace("Scene file event", slog.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			w.log.Warn("Scene watcher error", slog.Any("error", err))

		case <-timer.C:
			w.log.Info("Scene file changed, reloading", slog.String("path", w.path))
			w.reload()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}

	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) String() string {
	return "scene-watcher"
}
