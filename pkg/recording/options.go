package recording

import "github.com/skald-io/skald/internal/core"

// Option configures New.
type Option func(*streamConfig)

type streamConfig struct {
	recordingID       string
	makeDefault       bool
	makeThreadDefault bool
	defaultEnabled    bool
	sinkPath          string
	sink              core.Sink
}

// WithRecordingID sets the recording identity, a UUIDv4 distinguishing
// concurrent recordings that share an application identity. Malformed values
// make New fail.
func WithRecordingID(id string) Option {
	return func(c *streamConfig) { c.recordingID = id }
}

// AsDefault installs the new recording as the process's global recording.
func AsDefault() Option {
	return func(c *streamConfig) { c.makeDefault = true }
}

// AsThreadDefault installs the new recording as the calling goroutine's
// recording.
func AsThreadDefault() Option {
	return func(c *streamConfig) { c.makeThreadDefault = true }
}

// WithDefaultEnabled sets whether the recording accepts data by default
// (default true). The SKALD environment toggle and the settings-file toggle
// override it either way.
func WithDefaultEnabled(enabled bool) Option {
	return func(c *streamConfig) { c.defaultEnabled = enabled }
}

// WithFileSink streams flushed batches to a file, one JSON line per batch.
// The file is created (or truncated) when New runs.
func WithFileSink(path string) Option {
	return func(c *streamConfig) { c.sinkPath = path }
}

// withSink injects a sink directly; used by tests to observe flushes.
func withSink(sink core.Sink) Option {
	return func(c *streamConfig) { c.sink = sink }
}
