package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skald.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		enabled bool
		ok      bool
	}{
		{"on", "on", true, true},
		{"off", "off", false, true},
		{"numeric on", "1", true, true},
		{"numeric off", "0", false, true},
		{"mixed case", "ON", true, true},
		{"padded", " off ", false, true},
		{"unset", "", false, false},
		{"garbage", "maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled, ok := ParseToggle(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.enabled, enabled)
		})
	}
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.FlushTickSecs)
	assert.Equal(t, int64(1<<20), cfg.FlushNumBytes)
	assert.Equal(t, int64(0), cfg.FlushNumRows)
	assert.Empty(t, cfg.Toggle)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeSettings(t, `{"toggle": "off", "flush_tick_secs": 2.5, "flush_num_rows": 128}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "off", cfg.Toggle)
	assert.Equal(t, 2.5, cfg.FlushTickSecs)
	assert.Equal(t, int64(128), cfg.FlushNumRows)
	// Untouched fields keep their defaults
	assert.Equal(t, int64(1<<20), cfg.FlushNumBytes)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SKALD_FLUSH_TICK_SECS", "0.2")

	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.FlushTickSecs)
}

func TestLoad_ToggleSpellingsMatchEnvironment(t *testing.T) {
	t.Setenv("SKALD", "")

	// Every spelling ParseToggle accepts from the SKALD environment variable
	// is also valid in the settings file.
	for _, value := range []string{"on", "off", "1", "0", "true", "false", "yes", "no"} {
		path := writeSettings(t, `{"toggle": "`+value+`"}`)

		cfg, err := Load(path)
		require.NoError(t, err, "toggle %q", value)

		want, ok := ParseToggle(value)
		require.True(t, ok)
		assert.Equal(t, want, cfg.Override(!want), "toggle %q", value)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeSettings(t, `{"flush_tick_seconds": 1}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad toggle", `{"toggle": "sometimes"}`},
		{"negative tick", `{"flush_tick_secs": -1}`},
		{"bad level", `{"log_level": "loud"}`},
		{"not json", `flush_tick_secs: 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, tt.contents)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestOverride_Precedence(t *testing.T) {
	s := &Settings{Toggle: "off"}
	assert.False(t, s.Override(true))

	t.Setenv("SKALD", "on")
	assert.True(t, s.Override(false), "environment toggle wins over settings file")

	t.Setenv("SKALD", "")
	s.Toggle = ""
	assert.True(t, s.Override(true))
	assert.False(t, s.Override(false))
}

func TestEnvToggle(t *testing.T) {
	t.Setenv("SKALD", "off")
	enabled, ok := EnvToggle()
	assert.True(t, ok)
	assert.False(t, enabled)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := writeSettings(t, `{"toggle": "on"}`)

	reloaded := make(chan *Settings, 1)
	w, err := NewWatcher(zerolog.Nop(), path, func(s *Settings) {
		select {
		case reloaded <- s:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"toggle": "off"}`), 0600))

	select {
	case s := <-reloaded:
		assert.Equal(t, "off", s.Toggle)
	case <-time.After(5 * time.Second):
		t.Fatal("settings reload was not observed")
	}
}

func TestWatcher_KeepsPreviousOnBadFile(t *testing.T) {
	path := writeSettings(t, `{"toggle": "on"}`)

	reloaded := make(chan *Settings, 1)
	w, err := NewWatcher(zerolog.Nop(), path, func(s *Settings) {
		select {
		case reloaded <- s:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"toggle": "broken"}`), 0600))

	select {
	case s := <-reloaded:
		t.Fatalf("malformed settings should not reach the callback, got %+v", s)
	case <-time.After(1500 * time.Millisecond):
		// Reload was rejected, previous settings stay in effect.
	}
}
