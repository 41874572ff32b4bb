package logfile

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/funcompany/justlog-go/pkg/record"
)

func sampleRecord(level record.Level, msg string, ts time.Time) record.Record {
	return record.Record{
		Level:     level,
		Message:   msg,
		Timestamp: ts,
		Source:    record.SourceLocation{File: "app.go", Function: "run", Line: 10},
		Fields:    map[string]any{"session": "s-1"},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jlog")
	ts := time.Date(2026, 8, 30, 10, 0, 0, 123456789, time.UTC)

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	rec := sampleRecord(record.LevelWarning, "low disk", ts)
	rec.Errors = record.Unwind(errors.New("statfs failed"))
	if err := w.Append(FromRecord(rec)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if e.Message != "low disk" {
		t.Errorf("Message = %q", e.Message)
	}
	if record.Level(e.Level) != record.LevelWarning {
		t.Errorf("Level = %d", e.Level)
	}
	if !e.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, ts)
	}
	if e.File != "app.go" || e.Line != 10 {
		t.Errorf("source = %s:%d", e.File, e.Line)
	}
	if e.Fields["session"] != "s-1" {
		t.Errorf("Fields = %v", e.Fields)
	}
	if len(e.Errors) != 1 || e.Errors[0].Message != "statfs failed" {
		t.Errorf("Errors = %v", e.Errors)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last entry, got %v", err)
	}
}

func TestAppendAfterCloseIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.jlog")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be nil, got %v", err)
	}
	if err := w.Append(Entry{Message: "late"}); err != nil {
		t.Errorf("Append after Close should be nil, got %v", err)
	}
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.jlog")
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	levels := []record.Level{record.LevelDebug, record.LevelInfo, record.LevelError}
	for i, lvl := range levels {
		rec := sampleRecord(lvl, "entry", base.Add(time.Duration(i)*time.Minute))
		if err := w.Append(FromRecord(rec)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	min := record.LevelInfo
	r, err := NewFilteredReader(path, Filter{MinLevel: &min})
	if err != nil {
		t.Fatalf("NewFilteredReader: %v", err)
	}
	defer r.Close()

	var got []record.Level
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, record.Level(e.Level))
	}
	if len(got) != 2 || got[0] != record.LevelInfo || got[1] != record.LevelError {
		t.Errorf("filtered levels = %v", got)
	}
}

func TestFilterMatches(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	e := Entry{
		Timestamp: base,
		Level:     uint8(record.LevelInfo),
		Message:   "cache warmed",
	}

	lvl := record.LevelInfo
	other := record.LevelError
	after := base.Add(time.Second)

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"level match", Filter{Level: &lvl}, true},
		{"level mismatch", Filter{Level: &other}, false},
		{"time window", Filter{TimeStart: &base, TimeEnd: &after}, true},
		{"before window", Filter{TimeStart: &after}, false},
		{"substring", Filter{MessageContains: "warm"}, true},
		{"substring miss", Filter{MessageContains: "cold"}, false},
	}

	for _, tc := range cases {
		if got := tc.filter.matches(e); got != tc.want {
			t.Errorf("%s: matches = %v, want %v", tc.name, got, tc.want)
		}
	}
}
