// Package core is the native logging core behind the recording SDK: it owns
// session state, enablement, micro-batching, and sinks. The public surface in
// pkg/recording only holds opaque references into this package.
package core

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/skald-io/skald/internal/config"
	"github.com/skald-io/skald/internal/logger"
)

// ErrClosed is returned when a record is pushed into a closed session.
var ErrClosed = errors.New("core: session closed")

var (
	// currentSettings is the last successfully loaded settings snapshot. It
	// is replaced wholesale by the settings watcher, never mutated in place.
	currentSettings atomic.Pointer[config.Settings]

	watcherOnce sync.Once
)

// loadSettings loads the process settings and installs the hot-reload
// watcher on first use. Malformed settings are a creation-time error.
func loadSettings() (*config.Settings, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	currentSettings.Store(cfg)
	ensureWatcher()
	return cfg, nil
}

// ensureWatcher starts the settings-file watcher once per process. The
// watcher is advisory: if it cannot be created, settings stay as loaded.
func ensureWatcher() {
	watcherOnce.Do(func() {
		path := config.NewLoader("").GetSettingsPath()
		if path == "" {
			return
		}
		_, err := config.NewWatcher(*logger.Diag(), path, func(s *config.Settings) {
			currentSettings.Store(s)
		})
		if err != nil {
			logger.Diag().Debug().Err(err).Msg("Settings watcher unavailable")
		}
	})
}

// effectiveSettings returns the current settings snapshot, falling back to
// the built-in defaults before the first load.
func effectiveSettings() *config.Settings {
	if s := currentSettings.Load(); s != nil {
		return s
	}
	return config.DefaultSettings()
}
