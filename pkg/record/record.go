package record

import (
	"time"
)

// SourceLocation identifies the logging call site.
type SourceLocation struct {
	// File is the source file path (may be trimmed to its base name).
	File string

	// Function is the fully qualified function name.
	Function string

	// Line is the line number within File.
	Line int
}

// Record is one structured log entry, ready for encoding.
// Build a Record once and do not mutate it afterwards; the maps and
// slices it references are shared with every sink it is forwarded to.
type Record struct {
	// Level is the severity of the entry.
	Level Level

	// Message is the log message text.
	Message string

	// Timestamp is when the entry was created (nanosecond precision).
	Timestamp time.Time

	// Source is the call site that produced the entry.
	Source SourceLocation

	// Fields holds free-form structured values attached to the entry.
	// Values may be of any type; non-JSON-representable values are
	// reduced to strings at encode time.
	Fields map[string]any

	// Errors is the causal chain of the attached error, outermost first.
	// Nil when no error was attached.
	Errors ErrorChain
}
