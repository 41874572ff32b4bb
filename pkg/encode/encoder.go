package encode

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/funcompany/justlog-go/pkg/record"
)

// Encoded is one encoded record. The payload is owned exclusively by
// the delivery buffer until it is delivered or discarded; the original
// record travels along for retry and diagnostics.
type Encoded struct {
	// ID uniquely identifies the encoded record.
	ID string

	// Payload is the newline-terminated JSON line.
	Payload []byte

	// Record is the record the payload was built from.
	Record record.Record

	// Fallback is true when the payload was degraded because the
	// record could not be serialized as-is.
	Fallback bool
}

// Encoder encodes records as newline-delimited JSON. The zero value is
// ready to use and safe for concurrent use.
type Encoder struct{}

type sourcePayload struct {
	File     string `json:"file,omitempty"`
	Function string `json:"function,omitempty"`
	Line     int    `json:"line,omitempty"`
}

type causePayload struct {
	Domain  string `json:"domain"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type recordPayload struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Source    *sourcePayload `json:"source,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Errors    []causePayload `json:"errors,omitempty"`
}

// Encode builds the transport payload for rec. It never fails: field
// values outside the JSON-representable set are reduced to strings,
// and an internal serialization error yields a minimal fallback
// payload that still carries the message text.
func (e Encoder) Encode(rec record.Record) Encoded {
	enc := Encoded{
		ID:     uuid.NewString(),
		Record: rec,
	}

	p := recordPayload{
		Timestamp: rec.Timestamp.UTC().Format(time.RFC3339Nano),
		Level:     rec.Level.String(),
		Message:   rec.Message,
	}
	if rec.Source != (record.SourceLocation{}) {
		p.Source = &sourcePayload{
			File:     rec.Source.File,
			Function: rec.Source.Function,
			Line:     rec.Source.Line,
		}
	}
	if len(rec.Fields) > 0 {
		fields := make(map[string]any, len(rec.Fields))
		for k, v := range rec.Fields {
			fields[k] = Sanitize(v)
		}
		p.Fields = fields
	}
	for _, c := range rec.Errors {
		p.Errors = append(p.Errors, causePayload{
			Domain:  c.Domain,
			Code:    c.Code,
			Message: c.Message,
		})
	}

	data, err := json.Marshal(p)
	if err != nil {
		enc.Fallback = true
		data = fallbackPayload(rec, err)
	}

	enc.Payload = append(data, '\n')
	return enc
}

// fallbackPayload builds a guaranteed-valid JSON line by hand. It
// keeps the message and level and records why encoding degraded.
func fallbackPayload(rec record.Record, cause error) []byte {
	buf := make([]byte, 0, 128)
	buf = append(buf, `{"timestamp":`...)
	buf = strconv.AppendQuote(buf, rec.Timestamp.UTC().Format(time.RFC3339Nano))
	buf = append(buf, `,"level":`...)
	buf = strconv.AppendQuote(buf, rec.Level.String())
	buf = append(buf, `,"message":`...)
	buf = strconv.AppendQuote(buf, rec.Message)
	buf = append(buf, `,"encoding_error":`...)
	buf = strconv.AppendQuote(buf, cause.Error())
	buf = append(buf, '}')
	return buf
}
