package recording

import (
	"iter"

	"github.com/google/uuid"

	"github.com/skald-io/skald/internal/logger"
)

// Isolated runs fn under a freshly created recording: the recording gets the
// given application identity and a newly generated recording identity, is
// installed as the calling goroutine's recording for the duration of the
// call, and is torn down afterwards with the previous goroutine-local
// recording restored. fn's error (or panic) propagates unchanged.
func Isolated(applicationID string, fn func() error) error {
	rec, err := New(applicationID, WithRecordingID(uuid.NewString()))
	if err != nil {
		return err
	}
	defer func() { _ = rec.Close() }()

	scope := rec.Activate()
	defer scope.Exit()

	return fn()
}

// Wrap returns fn wrapped so that every invocation runs under its own
// freshly created recording, as in Isolated.
func Wrap(applicationID string, fn func() error) func() error {
	return func() error {
		return Isolated(applicationID, fn)
	}
}

// IsolateSeq returns a sequence that yields the same values as seq, with a
// freshly created recording installed as the goroutine-local recording
// whenever the producer body runs. The scope is re-entered around every
// resumption step rather than held across the whole iteration: while control
// is with the consumer the previous recording is back in place, so unrelated
// code may install and restore its own recordings between yields without the
// producer ever observing them.
//
// The recording is torn down when the producer is exhausted or the consumer
// stops early. In the unlikely event that the recording cannot be created
// (malformed process settings), the failure is logged and the producer runs
// without isolation.
func IsolateSeq[V any](applicationID string, seq iter.Seq[V]) iter.Seq[V] {
	return func(yield func(V) bool) {
		rec, err := New(applicationID, WithRecordingID(uuid.NewString()))
		if err != nil {
			logger.Diag().Warn().
				Err(err).
				Str("application_id", applicationID).
				Msg("Recording creation failed, producer runs without isolation")
			seq(yield)
			return
		}
		defer func() { _ = rec.Close() }()

		scope := rec.Activate()
		defer func() { scope.Exit() }()

		seq(func(v V) bool {
			// Suspended: hand control to the consumer under the recording it
			// had, not the isolated one.
			scope.Exit()
			more := yield(v)
			// Running again.
			scope = rec.Activate()
			return more
		})
	}
}

// Producer yields a sequence of values and can be resumed with externally
// supplied input. Next reports false when the producer is exhausted;
// exhaustion is the normal termination path, not an error. Close ends the
// producer early; it must release the producer's resources even when no
// value was ever pulled.
type Producer[In, Out any] interface {
	Next(in In) (Out, bool)
	Close() error
}

type producerState int

const (
	producerCreated producerState = iota
	producerRunning
	producerSuspended
	producerClosed
)

// IsolateProducer wraps p so that a freshly created recording is the
// goroutine-local recording during every Next and Close call on the wrapper,
// no matter which recordings other code installed on the same goroutine
// between calls. Termination — exhaustion, early Close, or a panic inside
// Next — closes the wrapped producer exactly once, before the final scope
// exit, so the isolated recording is never left installed past the
// producer's end of life.
//
// Like the producers it wraps, the wrapper is not safe for concurrent use,
// but successive calls may come from different goroutines.
func IsolateProducer[In, Out any](applicationID string, p Producer[In, Out]) (Producer[In, Out], error) {
	rec, err := New(applicationID, WithRecordingID(uuid.NewString()))
	if err != nil {
		return nil, err
	}
	return &isolatedProducer[In, Out]{rec: rec, inner: p}, nil
}

type isolatedProducer[In, Out any] struct {
	rec         *Stream
	inner       Producer[In, Out]
	state       producerState
	innerClosed bool
}

func (p *isolatedProducer[In, Out]) Next(in In) (out Out, ok bool) {
	if p.state == producerClosed {
		return out, false
	}

	p.state = producerRunning
	scope := p.rec.Activate()
	defer func() {
		if r := recover(); r != nil {
			// The producer died mid-step: close it before leaving the scope.
			p.teardown()
			scope.Exit()
			panic(r)
		}
		scope.Exit()
	}()

	out, ok = p.inner.Next(in)
	if !ok {
		p.teardown()
		return out, false
	}

	p.state = producerSuspended
	return out, true
}

// Close ends the producer early. Cleanup runs with the isolated recording
// installed, so its last use stays properly scoped.
func (p *isolatedProducer[In, Out]) Close() error {
	if p.state == producerClosed {
		return nil
	}

	scope := p.rec.Activate()
	defer scope.Exit()

	p.state = producerClosed
	if p.innerClosed {
		return nil
	}
	p.innerClosed = true
	err := p.inner.Close()
	_ = p.rec.Close()
	return err
}

// teardown closes the inner producer and the recording on the normal and
// panic termination paths, where close errors have no recipient beyond
// diagnostics.
func (p *isolatedProducer[In, Out]) teardown() {
	p.state = producerClosed
	if p.innerClosed {
		return
	}
	p.innerClosed = true
	if err := p.inner.Close(); err != nil {
		logger.Diag().Warn().Err(err).Msg("Producer close failed")
	}
	_ = p.rec.Close()
}
