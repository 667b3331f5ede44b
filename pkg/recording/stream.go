package recording

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/skald-io/skald/internal/core"
	"github.com/skald-io/skald/internal/logger"
)

// EnvRecordingID carries the default recording identity across process
// boundaries: a child process inheriting the variable defaults to the same
// recording as its parent.
const EnvRecordingID = "SKALD_RECORDING_ID"

// Stream is an opaque, shareable handle to a native recording session. The
// zero value (and a nil *Stream method receiver) behaves like "no stream
// supplied" and resolves to the active recording; see Null for the
// deliberately empty stream.
//
// Streams may be copied and used from any goroutine.
type Stream struct {
	session *core.Session
}

// Null returns a non-nil stream with no session behind it. Passing it
// explicitly to an operation suppresses that operation regardless of the
// goroutine-local and global recordings: an explicit argument always wins,
// even an empty one. This is distinct from passing nil, which means
// "argument omitted".
func Null() *Stream {
	return &Stream{}
}

// New creates a recording with a caller-chosen application identity.
//
// Without WithRecordingID, the recording identity defaults to a value that
// is stable for the whole process and inherited by child processes spawned
// with InheritEnv — independently launched parts of one pipeline end up in
// the same recording by default. Pass a fresh UUID explicitly to force
// distinct recordings within one process.
//
// Configuration problems (empty application identity, malformed recording
// identity, malformed settings file) are reported here, at creation time.
func New(applicationID string, opts ...Option) (*Stream, error) {
	if applicationID == "" {
		return nil, ErrNoApplicationID
	}

	cfg := streamConfig{defaultEnabled: true}
	for _, o := range opts {
		o(&cfg)
	}

	recID := cfg.recordingID
	if recID == "" {
		recID = defaultRecordingID()
	} else if _, err := uuid.Parse(recID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadRecordingID, recID)
	}

	sink := cfg.sink
	if cfg.sinkPath != "" {
		fileSink, err := core.NewFileSink(cfg.sinkPath)
		if err != nil {
			return nil, err
		}
		sink = fileSink
	}

	session, err := core.NewSession(core.Options{
		ApplicationID:  applicationID,
		RecordingID:    recID,
		DefaultEnabled: cfg.defaultEnabled,
		CallerLocation: callerLocation(),
		Sink:           sink,
	})
	if err != nil {
		return nil, err
	}

	s := &Stream{session: session}

	// Advisory flush when this handle becomes unreachable. Handles are
	// copyable and sessions are shared, so the cleanup must never close the
	// session; teardown belongs to an explicit Close. A flush racing process
	// exit is dropped.
	runtime.AddCleanup(s, func(sess *core.Session) {
		sess.Flush(false)
	}, session)

	// Global install happens before the goroutine-local one.
	if cfg.makeDefault {
		defaultRegistry.SetGlobal(s)
	}
	if cfg.makeThreadDefault {
		defaultRegistry.SetThreadLocal(s)
	}

	return s, nil
}

// sessionOrNil tolerates both nil streams and Null streams.
func (s *Stream) sessionOrNil() *core.Session {
	if s == nil {
		return nil
	}
	return s.session
}

// SameSession reports whether two handles reference the same underlying
// session. Handle values are interchangeable; identity lives in the session.
func (s *Stream) SameSession(other *Stream) bool {
	return s.sessionOrNil() == other.sessionOrNil()
}

// Close drains the recording and releases its sink. Further logging through
// this stream is a no-op. Closing twice is harmless.
func (s *Stream) Close() error {
	return s.sessionOrNil().Close()
}

var (
	procIDOnce sync.Once
	procID     string
)

// defaultRecordingID returns the process-stable default recording identity:
// the inherited SKALD_RECORDING_ID when valid, else one random UUIDv4
// generated on first use and kept for the lifetime of the process.
func defaultRecordingID() string {
	procIDOnce.Do(func() {
		if v := os.Getenv(EnvRecordingID); v != "" {
			if _, err := uuid.Parse(v); err == nil {
				procID = v
				return
			}
			logger.Diag().Warn().Str("value", v).Msg("Ignoring malformed inherited recording id")
		}
		procID = uuid.NewString()
	})
	return procID
}

// InheritEnv returns environment entries for exec.Cmd.Env that make child
// processes default to this process's default recording identity.
func InheritEnv() []string {
	return []string{EnvRecordingID + "=" + defaultRecordingID()}
}

// callerLocation walks the stack for the first frame outside this package,
// recorded on the session for viewers. Best effort only.
func callerLocation() string {
	for skip := 2; skip < 12; skip++ {
		_, file, line, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if strings.Contains(file, "pkg/recording") {
			continue
		}
		return fmt.Sprintf("%s:%d", file, line)
	}
	return ""
}
