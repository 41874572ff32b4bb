package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/funcompany/justlog-go/pkg/logfile"
	"github.com/funcompany/justlog-go/pkg/record"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalRecords   int
	RecordsByLevel map[record.Level]int
	WithErrors     int
	TimeRange      struct {
		Start time.Time
		End   time.Time
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := logfile.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		RecordsByLevel: make(map[record.Level]int),
	}

	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}

		stats.TotalRecords++
		stats.RecordsByLevel[record.Level(entry.Level)]++
		if len(entry.Errors) > 0 {
			stats.WithErrors++
		}

		if stats.TimeRange.Start.IsZero() || entry.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = entry.Timestamp
		}
		if entry.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = entry.Timestamp
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "Total records: %d\n", stats.TotalRecords)
	if stats.TotalRecords == 0 {
		return
	}

	fmt.Fprintf(w, "Time range:    %s - %s (%s)\n",
		stats.TimeRange.Start.UTC().Format(time.RFC3339),
		stats.TimeRange.End.UTC().Format(time.RFC3339),
		stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond),
	)
	fmt.Fprintf(w, "With errors:   %d\n", stats.WithErrors)

	fmt.Fprintln(w, "\nRecords by level:")
	levels := make([]record.Level, 0, len(stats.RecordsByLevel))
	for lvl := range stats.RecordsByLevel {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	for _, lvl := range levels {
		fmt.Fprintf(w, "  %-8s %d\n", lvl.String(), stats.RecordsByLevel[lvl])
	}
}
