package sink

import (
	"io"
	"sync"

	"github.com/funcompany/justlog-go/pkg/encode"
)

// ConsoleSink writes encoded payload lines to an io.Writer.
// It is safe for concurrent use.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSink creates a ConsoleSink writing to w,
// typically os.Stdout or os.Stderr.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// Accept writes the payload line to the underlying writer.
func (s *ConsoleSink) Accept(e encode.Encoded) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.w.Write(e.Payload)
	return err
}

// Compile-time interface satisfaction check.
var _ Sink = (*ConsoleSink)(nil)
