package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/funcompany/justlog-go/pkg/logfile"
	"github.com/funcompany/justlog-go/pkg/record"
)

// exportedEntry is the JSONL export shape.
type exportedEntry struct {
	Timestamp string              `json:"timestamp"`
	Level     string              `json:"level"`
	Message   string              `json:"message"`
	File      string              `json:"file,omitempty"`
	Function  string              `json:"function,omitempty"`
	Line      int                 `json:"line,omitempty"`
	Fields    map[string]any      `json:"fields,omitempty"`
	Errors    []logfile.EntryCause `json:"errors,omitempty"`
}

// RunExport exports the log file to the specified format.
func RunExport(path, format string, w io.Writer) error {
	reader, err := logfile.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *logfile.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}

		out := exportedEntry{
			Timestamp: entry.Timestamp.UTC().Format(time.RFC3339Nano),
			Level:     record.Level(entry.Level).String(),
			Message:   entry.Message,
			File:      entry.File,
			Function:  entry.Function,
			Line:      entry.Line,
			Fields:    entry.Fields,
			Errors:    entry.Errors,
		}
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *logfile.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "level", "message", "file", "function", "line"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}

		row := []string{
			entry.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			record.Level(entry.Level).String(),
			entry.Message,
			entry.File,
			entry.Function,
			fmt.Sprintf("%d", entry.Line),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
