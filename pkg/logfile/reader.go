package logfile

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/funcompany/justlog-go/pkg/record"
)

// Filter specifies criteria for selecting entries.
// Zero/nil fields match all entries for that criterion.
type Filter struct {
	// Level selects entries at exactly this level.
	Level *record.Level

	// MinLevel selects entries at or above this level.
	MinLevel *record.Level

	// TimeStart selects entries at or after this time.
	TimeStart *time.Time

	// TimeEnd selects entries before this time.
	TimeEnd *time.Time

	// MessageContains selects entries whose message contains this
	// substring.
	MessageContains string
}

// matches returns true if the entry meets all filter criteria.
func (f *Filter) matches(e Entry) bool {
	if f.Level != nil && record.Level(e.Level) != *f.Level {
		return false
	}
	if f.MinLevel != nil && record.Level(e.Level) < *f.MinLevel {
		return false
	}
	if f.TimeStart != nil && e.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !e.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.MessageContains != "" && !strings.Contains(e.Message, f.MessageContains) {
		return false
	}
	return true
}

// Reader reads log entries from a CBOR-encoded file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all entries from the file at path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads entries matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next entry that matches the filter.
// Returns io.EOF when no more entries are available.
func (r *Reader) Next() (Entry, error) {
	for {
		var e Entry
		if err := r.decoder.Decode(&e); err != nil {
			if err == io.EOF {
				return Entry{}, io.EOF
			}
			return Entry{}, err
		}

		if r.filter.matches(e) {
			return e, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
