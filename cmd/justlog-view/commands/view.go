// Package commands implements the justlog-view CLI commands.
package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/funcompany/justlog-go/pkg/logfile"
	"github.com/funcompany/justlog-go/pkg/record"
)

// RunView prints the filtered entries in human-readable form.
func RunView(path string, filter logfile.Filter, w io.Writer) error {
	reader, err := logfile.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	count := 0
	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}
		formatEntry(w, entry)
		count++
	}

	fmt.Fprintf(w, "%d records\n", count)
	return nil
}

// formatEntry writes a human-readable representation of the entry.
func formatEntry(w io.Writer, entry logfile.Entry) {
	ts := entry.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	level := record.Level(entry.Level).String()

	fmt.Fprintf(w, "%s %-7s %s\n", ts, level, entry.Message)

	if entry.File != "" {
		fmt.Fprintf(w, "  Source: %s:%d", entry.File, entry.Line)
		if entry.Function != "" {
			fmt.Fprintf(w, " (%s)", entry.Function)
		}
		fmt.Fprintln(w)
	}

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %v\n", k, entry.Fields[k])
		}
	}

	for i, cause := range entry.Errors {
		fmt.Fprintf(w, "  Error[%d]:", i)
		if cause.Domain != "" {
			fmt.Fprintf(w, " %s", cause.Domain)
		}
		if cause.Code != 0 {
			fmt.Fprintf(w, " (%d)", cause.Code)
		}
		fmt.Fprintf(w, " %s\n", cause.Message)
	}

	fmt.Fprintln(w)
}
