package record

import (
	"fmt"
	"strings"
)

// Level is the severity of a log record.
type Level uint8

const (
	// LevelVerbose is the most detailed level, below debug.
	LevelVerbose Level = iota

	// LevelDebug is for information useful during development.
	LevelDebug

	// LevelInfo is for routine operational messages.
	LevelInfo

	// LevelWarning is for recoverable problems.
	LevelWarning

	// LevelError is for failures that need attention.
	LevelError
)

// String returns the level name as used in encoded payloads.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to a Level. Matching is
// case-insensitive. "warn" is accepted as an alias for "warning".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelVerbose, fmt.Errorf("unknown log level %q", s)
	}
}
