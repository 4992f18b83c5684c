package file

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/logger"
)

// reloadDebounce coalesces the burst of events editors emit per save.
const reloadDebounce = 200 * time.Millisecond

// Watcher reloads the settings file when it changes.
type Watcher struct {
	store    *SettingsStore
	debounce time.Duration
}

// NewWatcher creates a watcher for the store's file.
func NewWatcher(store *SettingsStore) *Watcher {
	return &Watcher{store: store, debounce: reloadDebounce}
}

// Watch calls onChange with freshly loaded settings after every change to the
// file until ctx ends. Invalid files are logged and skipped. The directory is
// watched rather than the file so that editors which replace the file on save
// keep being followed.
func (w *Watcher) Watch(ctx context.Context, onChange func(domain.AppSettings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(w.store.Path())
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.Debug("Watching %s for settings changes", w.store.Path())

	target := filepath.Clean(w.store.Path())
	var timer *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			settings, err := w.store.Load()
			if err != nil {
				logger.Warn("Settings reload failed: %v", err)
				continue
			}
			logger.Info("Settings reloaded from %s", w.store.Path())
			onChange(settings)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Settings watcher error: %v", err)
		}
	}
}
