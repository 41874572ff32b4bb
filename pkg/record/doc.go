// Package record defines the structured log record model.
//
// A Record is one timestamped log entry, immutable once built. Records
// carry a severity level, a message, the source location of the logging
// call, free-form structured fields, and an optional causal chain of
// errors produced by unwrapping a Go error outward-in.
//
// Application and device metadata (app version, platform version, device
// type) is supplied through the Metadata interface; the logging core does
// not compute these values itself.
package record
