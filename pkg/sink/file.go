package sink

import (
	"github.com/funcompany/justlog-go/pkg/encode"
	"github.com/funcompany/justlog-go/pkg/logfile"
)

// FileSink appends records to a binary .jlog file.
// It is safe for concurrent use.
type FileSink struct {
	w *logfile.Writer
}

// NewFileSink creates a FileSink appending to the file at path.
func NewFileSink(path string) (*FileSink, error) {
	w, err := logfile.NewWriter(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{w: w}, nil
}

// Accept stores the record in the log file.
func (s *FileSink) Accept(e encode.Encoded) error {
	return s.w.Append(logfile.FromRecord(e.Record))
}

// Close closes the underlying log file.
// Safe to call multiple times.
func (s *FileSink) Close() error {
	return s.w.Close()
}

// Compile-time interface satisfaction check.
var _ Sink = (*FileSink)(nil)
