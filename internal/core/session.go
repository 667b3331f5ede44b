package core

import (
	"sync/atomic"
	"time"
)

// Options configure a new session.
type Options struct {
	ApplicationID string
	RecordingID   string

	// DefaultEnabled is the creation-time enabled state. The SKALD
	// environment toggle and the settings-file toggle override it.
	DefaultEnabled bool

	// CallerLocation is the source location that created the recording,
	// recorded for viewers; purely informational.
	CallerLocation string

	// Sink receives flushed batches. Defaults to an in-memory sink.
	Sink Sink
}

// Session is one native recording session. Handles in pkg/recording share
// sessions freely; session identity is pointer identity.
type Session struct {
	applicationID  string
	recordingID    string
	callerLocation string
	defaultEnabled bool

	batcher *batcher
	closed  atomic.Bool
}

// NewSession creates a session with its own micro-batcher. Settings problems
// (malformed settings file, bad values) surface here, at creation time.
func NewSession(opts Options) (*Session, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}

	sink := opts.Sink
	if sink == nil {
		sink = NewMemorySink()
	}

	s := &Session{
		applicationID:  opts.ApplicationID,
		recordingID:    opts.RecordingID,
		callerLocation: opts.CallerLocation,
		defaultEnabled: opts.DefaultEnabled,
	}
	s.batcher = newBatcher(sink, batcherConfig{
		tick:     time.Duration(cfg.FlushTickSecs * float64(time.Second)),
		maxBytes: cfg.FlushNumBytes,
		maxRows:  cfg.FlushNumRows,
	}, opts.ApplicationID, opts.RecordingID)

	return s, nil
}

// ApplicationID returns the application identity this session logs under.
func (s *Session) ApplicationID() string {
	return s.applicationID
}

// RecordingID returns the recording identity of this session.
func (s *Session) RecordingID() string {
	return s.recordingID
}

// CallerLocation returns the source location recorded at creation, if any.
func (s *Session) CallerLocation() string {
	return s.callerLocation
}

// Enabled reports whether records pushed into this session are kept. It
// consults the process-wide toggle (environment, then settings file) on
// every call so a hot-reloaded kill switch takes effect immediately.
func (s *Session) Enabled() bool {
	if s == nil || s.closed.Load() {
		return false
	}
	return effectiveSettings().Override(s.defaultEnabled)
}

// Record queues one row. Disabled sessions drop rows silently; closed
// sessions report ErrClosed.
func (s *Session) Record(row Row) error {
	if s == nil {
		return nil
	}
	if s.closed.Load() {
		return ErrClosed
	}
	if !s.Enabled() {
		return nil
	}
	if row.TimeNanos == 0 {
		row.TimeNanos = time.Now().UnixNano()
	}
	return s.batcher.push(row)
}

// Flush drains queued rows to the sink. Non-blocking flushes are advisory:
// they request a drain and return. Flush never reports errors; a flush that
// races process exit is dropped.
func (s *Session) Flush(blocking bool) {
	if s == nil || s.closed.Load() {
		return
	}
	s.batcher.flush(blocking)
}

// Close drains the batcher and closes the sink. Safe to call more than once.
func (s *Session) Close() error {
	if s == nil || s.closed.Swap(true) {
		return nil
	}
	return s.batcher.close()
}
