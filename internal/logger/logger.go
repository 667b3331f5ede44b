package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger for the SDK's own diagnostics. It never
// touches the host application's global logger.
type Logger struct {
	logger zerolog.Logger
	file   *os.File
}

// Config holds diagnostics logger configuration
type Config struct {
	Level   string // debug, info, warn, error
	File    string // optional diagnostics file path
	Console bool   // enable stderr output
	Pretty  bool   // pretty format for stderr
}

// New creates a new diagnostics logger
func New(cfg Config) (*Logger, error) {
	// Parse log level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.WarnLevel
	}

	// Create writers
	var writers []io.Writer

	// Console writer (stderr: diagnostics must not pollute the host's stdout)
	if cfg.Console {
		var consoleWriter io.Writer = os.Stderr
		if cfg.Pretty {
			consoleWriter = zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.RFC3339,
			}
		}
		writers = append(writers, consoleWriter)
	}

	// File writer
	var file *os.File
	if cfg.File != "" {
		dir := filepath.Dir(cfg.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create diagnostics directory: %w", err)
		}

		file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open diagnostics file: %w", err)
		}

		writers = append(writers, file)
	}

	var writer io.Writer
	if len(writers) == 0 {
		writer = os.Stderr
	} else if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = io.MultiWriter(writers...)
	}

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("component", "skald").
		Logger()

	return &Logger{
		logger: logger,
		file:   file,
	}, nil
}

// Close closes the logger and any open files
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// GetZerolog returns the underlying zerolog.Logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.logger
}

// DefaultConfig returns default diagnostics configuration. The level can be
// raised with the SKALD_LOG environment variable.
func DefaultConfig() Config {
	level := os.Getenv("SKALD_LOG")
	if level == "" {
		level = "warn"
	}
	return Config{
		Level:   level,
		Console: true,
	}
}

var (
	diagOnce sync.Once
	diag     zerolog.Logger
)

// Diag returns the process-wide diagnostics logger, creating it on first use.
func Diag() *zerolog.Logger {
	diagOnce.Do(func() {
		l, err := New(DefaultConfig())
		if err != nil {
			// Diagnostics must never take the host application down.
			diag = zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
			return
		}
		diag = l.logger
	})
	return &diag
}
