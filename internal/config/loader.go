package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Loader handles settings loading
type Loader struct {
	settingsPath string
}

// NewLoader creates a new settings loader. An empty path falls back to the
// SKALD_SETTINGS environment variable, then to ~/.skald/skald.json.
func NewLoader(settingsPath string) *Loader {
	return &Loader{
		settingsPath: settingsPath,
	}
}

// Load loads the settings from the environment and, when present, the
// settings file. A missing file is not an error; a malformed one is.
func (l *Loader) Load() (*Settings, error) {
	settingsPath := l.GetSettingsPath()

	// Setup viper
	v := viper.New()
	v.SetEnvPrefix("SKALD")
	v.AutomaticEnv()

	// Environment-only defaults
	cfg := DefaultSettings()
	bindEnvKeys(v)

	// Settings file, if any
	if settingsPath != "" {
		if _, err := os.Stat(settingsPath); err == nil {
			raw, err := os.ReadFile(settingsPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read settings file: %w", err)
			}
			if err := ValidateSettingsJSON(raw); err != nil {
				return nil, fmt.Errorf("invalid settings file %s: %w", settingsPath, err)
			}

			v.SetConfigFile(settingsPath)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read settings file: %w", err)
			}
		}
	}

	// Unmarshal into settings struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetSettingsPath returns the effective settings file path, or "" when the
// home directory cannot be determined.
func (l *Loader) GetSettingsPath() string {
	if l.settingsPath != "" {
		return l.settingsPath
	}
	if p := os.Getenv("SKALD_SETTINGS"); p != "" {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".skald", "skald.json")
}

// bindEnvKeys makes AutomaticEnv see keys that are absent from the file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{"toggle", "flush_tick_secs", "flush_num_bytes", "flush_num_rows", "log_level"} {
		_ = v.BindEnv(key)
	}
}

// Validate checks value ranges that the schema cannot express relative to
// each other.
func (s *Settings) Validate() error {
	if s.FlushTickSecs < 0 {
		return fmt.Errorf("flush_tick_secs must not be negative, got %f", s.FlushTickSecs)
	}
	if s.FlushNumBytes < 0 {
		return fmt.Errorf("flush_num_bytes must not be negative, got %d", s.FlushNumBytes)
	}
	if s.FlushNumRows < 0 {
		return fmt.Errorf("flush_num_rows must not be negative, got %d", s.FlushNumRows)
	}
	if s.Toggle != "" {
		if _, ok := ParseToggle(s.Toggle); !ok {
			return fmt.Errorf("toggle must be on or off, got %q", s.Toggle)
		}
	}
	return nil
}

// Load is a convenience function that creates a loader and loads the settings
func Load(settingsPath string) (*Settings, error) {
	loader := NewLoader(settingsPath)
	return loader.Load()
}
