package sink

import (
	"bytes"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/funcompany/justlog-go/pkg/encode"
	"github.com/funcompany/justlog-go/pkg/logfile"
	"github.com/funcompany/justlog-go/pkg/record"
)

func encoded(msg string) encode.Encoded {
	var enc encode.Encoder
	return enc.Encode(record.Record{
		Level:     record.LevelInfo,
		Message:   msg,
		Timestamp: time.Now(),
	})
}

func TestConsoleSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf)

	if err := s.Accept(encoded("one")); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := s.Accept(encoded("two")); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !bytes.Contains(lines[0], []byte(`"one"`)) {
		t.Errorf("first line = %s", lines[0])
	}
}

func TestConsoleSinkConcurrent(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = s.Accept(encoded("concurrent"))
			}
		}()
	}
	wg.Wait()

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	if len(lines) != 200 {
		t.Errorf("got %d lines, want 200", len(lines))
	}
}

func TestFileSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sink.jlog")
	s, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	if err := s.Accept(encoded("persisted")); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := logfile.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if e.Message != "persisted" {
		t.Errorf("Message = %q", e.Message)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}
