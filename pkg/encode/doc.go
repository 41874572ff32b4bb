// Package encode turns log records into transport-ready payloads.
//
// Payloads are newline-delimited JSON: one object per line, compatible
// with Logstash's json_lines codec. Encoding is pure and never fails:
// field values that cannot be represented in JSON are reduced to their
// string form by a typed visitor, and an internal serialization error
// degrades the payload to a minimal valid object that still carries the
// original message text. A malformed field value never costs a log line.
//
// The payload layout:
//
//	{
//	  "timestamp": "2026-08-30T12:00:00.000000001Z",
//	  "level": "info",
//	  "message": "...",
//	  "source": {"file": "...", "function": "...", "line": 42},
//	  "fields": {...},
//	  "errors": [{"domain": "...", "code": 0, "message": "..."}]
//	}
//
// "source", "fields" and "errors" are omitted when empty.
package encode
