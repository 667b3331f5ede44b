package core

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/skald-io/skald/internal/logger"
)

type batcherConfig struct {
	tick     time.Duration
	maxBytes int64
	maxRows  int64 // zero means no row threshold
}

// batcher queues rows and hands them to the sink in batches, flushing on a
// timer tick, a byte threshold, or a row threshold, whichever comes first.
type batcher struct {
	sink          Sink
	cfg           batcherConfig
	applicationID string
	recordingID   string

	mu    sync.Mutex
	rows  []Row
	bytes int64

	stopCh  chan struct{}
	doneCh  chan struct{}
	flushCh chan struct{}
	stopped bool
}

func newBatcher(sink Sink, cfg batcherConfig, applicationID, recordingID string) *batcher {
	if cfg.tick <= 0 {
		cfg.tick = 50 * time.Millisecond
	}
	b := &batcher{
		sink:          sink,
		cfg:           cfg,
		applicationID: applicationID,
		recordingID:   recordingID,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		flushCh:       make(chan struct{}, 1),
	}
	go b.loop()
	return b
}

func (b *batcher) loop() {
	defer close(b.doneCh)
	ticker := time.NewTicker(b.cfg.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.doFlush()
		case <-b.flushCh:
			b.doFlush()
		case <-b.stopCh:
			return
		}
	}
}

// push queues one row. Thread-safe.
func (b *batcher) push(r Row) error {
	b.mu.Lock()

	if b.stopped {
		b.mu.Unlock()
		return ErrClosed
	}

	b.rows = append(b.rows, r)
	b.bytes += int64(len(r.EntityPath) + len(r.Data))

	trigger := false
	if b.cfg.maxBytes > 0 && b.bytes >= b.cfg.maxBytes {
		trigger = true
	}
	if b.cfg.maxRows > 0 && int64(len(b.rows)) >= b.cfg.maxRows {
		trigger = true
	}
	b.mu.Unlock()

	if trigger {
		b.requestFlush()
	}
	return nil
}

// flush drains the queue. When blocking, the sink write happens on the
// calling goroutine and has completed by the time flush returns; otherwise it
// is only requested.
func (b *batcher) flush(blocking bool) {
	if blocking {
		b.doFlush()
		return
	}
	b.requestFlush()
}

func (b *batcher) requestFlush() {
	select {
	case b.flushCh <- struct{}{}:
	default:
		// A flush is already pending.
	}
}

func (b *batcher) doFlush() {
	b.mu.Lock()
	if len(b.rows) == 0 {
		b.mu.Unlock()
		return
	}
	rows := b.rows
	b.rows = nil
	b.bytes = 0
	b.mu.Unlock()

	id, err := gonanoid.New()
	if err != nil {
		id = ""
	}

	batch := Batch{
		ID:            id,
		ApplicationID: b.applicationID,
		RecordingID:   b.recordingID,
		Rows:          rows,
	}
	if err := b.sink.WriteBatch(batch); err != nil {
		logger.Diag().Warn().
			Err(err).
			Str("recording_id", b.recordingID).
			Int("rows", len(rows)).
			Msg("Batch write failed, rows dropped")
	}
}

// close stops the loop, drains remaining rows, and closes the sink.
func (b *batcher) close() error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	b.mu.Unlock()

	close(b.stopCh)
	<-b.doneCh

	b.doFlush()
	return b.sink.Close()
}
