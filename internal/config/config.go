package config

import (
	"os"
	"strings"
)

// Settings holds process-wide SDK settings. Every field can come from the
// environment (SKALD_* variables) or from the optional settings file.
type Settings struct {
	// Toggle force-enables ("on") or force-disables ("off") every recording
	// in the process, regardless of the enabled flag chosen at creation
	// time. Empty means "no override".
	Toggle string `mapstructure:"toggle" json:"toggle,omitempty"`

	// FlushTickSecs is the micro-batcher flush frequency in seconds.
	FlushTickSecs float64 `mapstructure:"flush_tick_secs" json:"flush_tick_secs,omitempty"`

	// FlushNumBytes is the micro-batcher flush threshold in payload bytes.
	FlushNumBytes int64 `mapstructure:"flush_num_bytes" json:"flush_num_bytes,omitempty"`

	// FlushNumRows is the micro-batcher flush threshold in buffered rows.
	// Zero means no row threshold.
	FlushNumRows int64 `mapstructure:"flush_num_rows" json:"flush_num_rows,omitempty"`

	// LogLevel is the SDK diagnostics level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level,omitempty"`
}

// DefaultSettings returns the built-in defaults: flush every 50ms or every
// MiB of buffered payload, whichever comes first.
func DefaultSettings() *Settings {
	return &Settings{
		FlushTickSecs: 0.05,
		FlushNumBytes: 1 << 20,
		FlushNumRows:  0,
		LogLevel:      "warn",
	}
}

// ParseToggle interprets an on/off toggle value. The second return is false
// when the value does not express a toggle at all.
func ParseToggle(v string) (enabled bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "1", "true", "yes", "enabled":
		return true, true
	case "off", "0", "false", "no", "disabled":
		return false, true
	default:
		return false, false
	}
}

// EnvToggle reads the process-wide SKALD enable/disable override from the
// environment. The second return is false when the variable is unset or
// malformed.
func EnvToggle() (bool, bool) {
	return ParseToggle(os.Getenv("SKALD"))
}

// Override resolves the effective enabled state for a recording created with
// the given default. The environment toggle wins over the settings file
// toggle, which wins over the creation-time default.
func (s *Settings) Override(defaultEnabled bool) bool {
	if v, ok := EnvToggle(); ok {
		return v
	}
	if v, ok := ParseToggle(s.Toggle); ok {
		return v
	}
	return defaultEnabled
}
