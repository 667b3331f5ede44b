package recording

import "github.com/skald-io/skald/internal/core"

// The operations below are defined once as free functions taking an optional
// explicit stream — nil means "use the active recording" — and the Stream
// methods forward the receiver. Operations that resolve to no recording are
// silent no-ops.

// IsEnabled reports whether the resolved recording accepts data. False when
// no recording is active, when the recording was created disabled, or when
// the process-wide toggle turned logging off.
func IsEnabled(rec *Stream) bool {
	return defaultResolver.Resolve(rec).sessionOrNil().Enabled()
}

// ApplicationID returns the application identity of the resolved recording.
// The second return is false when no recording resolved.
func ApplicationID(rec *Stream) (string, bool) {
	sess := defaultResolver.Resolve(rec).sessionOrNil()
	if sess == nil {
		return "", false
	}
	return sess.ApplicationID(), true
}

// RecordingID returns the recording identity of the resolved recording. The
// second return is false when no recording resolved.
func RecordingID(rec *Stream) (string, bool) {
	sess := defaultResolver.Resolve(rec).sessionOrNil()
	if sess == nil {
		return "", false
	}
	return sess.RecordingID(), true
}

// Flush drains the resolved recording's queued rows to its sink. Blocking
// waits for the sink write; non-blocking only requests one.
func Flush(rec *Stream, blocking bool) {
	defaultResolver.Resolve(rec).sessionOrNil().Flush(blocking)
}

// Log records an opaque payload under an entity path on the resolved
// recording. Logging with no active recording, or to a disabled one, is a
// silent no-op — instrumentation can stay in code paths that run without a
// recording.
func Log(rec *Stream, entityPath string, payload []byte) error {
	sess := defaultResolver.Resolve(rec).sessionOrNil()
	if sess == nil {
		return nil
	}
	return sess.Record(core.Row{EntityPath: entityPath, Data: payload})
}

// IsEnabled reports whether this recording accepts data. On a nil receiver
// it falls back to the active recording.
func (s *Stream) IsEnabled() bool {
	return IsEnabled(s)
}

// ApplicationID returns the application identity of this recording.
func (s *Stream) ApplicationID() (string, bool) {
	return ApplicationID(s)
}

// RecordingID returns the recording identity of this recording.
func (s *Stream) RecordingID() (string, bool) {
	return RecordingID(s)
}

// Flush drains this recording's queued rows to its sink.
func (s *Stream) Flush(blocking bool) {
	Flush(s, blocking)
}

// Log records an opaque payload under an entity path on this recording.
func (s *Stream) Log(entityPath string, payload []byte) error {
	return Log(s, entityPath, payload)
}
