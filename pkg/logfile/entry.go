package logfile

import (
	"time"

	"github.com/funcompany/justlog-go/pkg/encode"
	"github.com/funcompany/justlog-go/pkg/record"
)

// Entry is one log record as stored on disk.
// CBOR encoding uses integer keys for compactness.
type Entry struct {
	// Timestamp when the record was created (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Level is the record severity (record.Level values).
	Level uint8 `cbor:"2,keyasint"`

	// Message is the log message text.
	Message string `cbor:"3,keyasint"`

	// File is the source file of the logging call.
	File string `cbor:"4,keyasint,omitempty"`

	// Function is the function containing the logging call.
	Function string `cbor:"5,keyasint,omitempty"`

	// Line is the source line of the logging call.
	Line int `cbor:"6,keyasint,omitempty"`

	// Fields holds the structured values attached to the record,
	// sanitized to the JSON-safe value set.
	Fields map[string]any `cbor:"7,keyasint,omitempty"`

	// Errors is the causal error chain, outermost first.
	Errors []EntryCause `cbor:"8,keyasint,omitempty"`
}

// EntryCause is one entry of a stored error chain.
type EntryCause struct {
	Domain  string `cbor:"1,keyasint,omitempty"`
	Code    int    `cbor:"2,keyasint,omitempty"`
	Message string `cbor:"3,keyasint"`
}

// FromRecord converts a record into its on-disk representation.
// Field values are sanitized so the entry always encodes.
func FromRecord(rec record.Record) Entry {
	e := Entry{
		Timestamp: rec.Timestamp,
		Level:     uint8(rec.Level),
		Message:   rec.Message,
		File:      rec.Source.File,
		Function:  rec.Source.Function,
		Line:      rec.Source.Line,
	}

	if len(rec.Fields) > 0 {
		fields := make(map[string]any, len(rec.Fields))
		for k, v := range rec.Fields {
			fields[k] = encode.Sanitize(v)
		}
		e.Fields = fields
	}
	for _, c := range rec.Errors {
		e.Errors = append(e.Errors, EntryCause{
			Domain:  c.Domain,
			Code:    c.Code,
			Message: c.Message,
		})
	}
	return e
}
