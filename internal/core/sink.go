package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Row is one logged record. The payload is opaque to the core: encoding and
// decoding of logged values happen above or below this layer, never in it.
type Row struct {
	EntityPath string `json:"entity_path"`
	Data       []byte `json:"data,omitempty"`
	TimeNanos  int64  `json:"time_nanos"`
}

// Batch is a flushed group of rows with its session identities attached.
type Batch struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`
	RecordingID   string `json:"recording_id"`
	Rows          []Row  `json:"rows"`
}

// Sink receives flushed batches.
type Sink interface {
	WriteBatch(b Batch) error
	Close() error
}

// MemorySink buffers batches in memory for inspection.
type MemorySink struct {
	mu      sync.Mutex
	batches []Batch
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// WriteBatch stores the batch.
func (m *MemorySink) WriteBatch(b Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, b)
	return nil
}

// Close is a no-op for the memory sink.
func (m *MemorySink) Close() error {
	return nil
}

// Batches returns a copy of everything flushed so far.
func (m *MemorySink) Batches() []Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Batch, len(m.batches))
	copy(out, m.batches)
	return out
}

// Rows returns every flushed row in flush order.
func (m *MemorySink) Rows() []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []Row
	for _, b := range m.batches {
		rows = append(rows, b.Rows...)
	}
	return rows
}

// FileSink appends batches to a file as JSON lines, one batch per line.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileSink creates (or truncates) the recording file at path.
func NewFileSink(path string) (*FileSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create recording directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording file: %w", err)
	}

	return &FileSink{file: file}, nil
}

// WriteBatch appends one JSON line and syncs it to disk.
func (f *FileSink) WriteBatch(b Batch) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return ErrClosed
	}
	if _, err := f.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}
	if err := f.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync recording file: %w", err)
	}

	return nil
}

// Close closes the underlying file.
func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
