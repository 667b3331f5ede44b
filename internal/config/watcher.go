package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads the settings file when it changes and hands the result to
// a callback. Reload errors are logged and the previous settings stay in
// effect.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	path     string
	onChange func(*Settings)
	debounce time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	stopCh chan struct{}
}

// NewWatcher creates a watcher for the given settings file.
func NewWatcher(logger zerolog.Logger, path string, onChange func(*Settings)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  watcher,
		logger:   logger,
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}

	// Watch the directory: editors replace files rather than rewrite them.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	go w.run()

	return w, nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.stopCh)
	return w.watcher.Close()
}

// run processes file system events
func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug().
					Str("file", filepath.Base(event.Name)).
					Str("op", event.Op.String()).
					Msg("Settings change detected")

				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Settings watcher error")

		case <-w.stopCh:
			return
		}
	}
}

// scheduleReload debounces the reload
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	settings, err := Load(w.path)
	if err != nil {
		w.logger.Warn().Err(err).Msg("Settings reload failed, keeping previous settings")
		return
	}

	w.logger.Info().Str("file", w.path).Msg("Settings reloaded")
	w.onChange(settings)
}
