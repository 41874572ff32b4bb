// Package logfile implements the binary on-disk log format.
//
// Files hold a stream of CBOR-encoded entries with integer keys for
// compactness and nanosecond-precision timestamps, by convention with
// the .jlog extension. Writer appends entries and is safe for
// concurrent use; Reader streams entries back with optional filtering.
//
// The justlog-view CLI tool provides viewing, filtering, and export
// of .jlog files.
package logfile
