package logger

import (
	"github.com/funcompany/justlog-go/pkg/record"
)

// Option customizes a single record before it is encoded.
type Option func(*record.Record)

// WithFields attaches structured values to the record. Fields with
// the same name as a default field take precedence.
func WithFields(fields map[string]any) Option {
	return func(rec *record.Record) {
		for k, v := range fields {
			rec.Fields[k] = v
		}
	}
}

// WithError attaches an error to the record. The error's causal chain
// is unwound into domain, code and message triples, outermost first.
func WithError(err error) Option {
	return func(rec *record.Record) {
		rec.Errors = record.Unwind(err)
	}
}
