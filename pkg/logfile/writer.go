package logfile

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Writer appends log entries to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type Writer struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewWriter creates a Writer that appends to the file at path.
// The file is created with permissions 0644 if it doesn't exist.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Append writes one entry to the file.
// Returns nil after Close; logging must not disrupt the application.
func (w *Writer) Append(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	return w.encoder.Encode(e)
}

// Close closes the underlying file. Safe to call multiple times;
// subsequent Append calls are silently ignored.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
