package main

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/funcompany/justlog-go/pkg/encode"
	"github.com/funcompany/justlog-go/pkg/record"
	"github.com/funcompany/justlog-go/pkg/shipper"
)

// recordLog collects received lines under a lock.
type recordLog struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordLog) add(line []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, string(line))
}

func (r *recordLog) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func startTestServer(t *testing.T) (*Server, *recordLog) {
	t.Helper()

	received := &recordLog{}
	server := NewServer(ServerConfig{
		Address: "127.0.0.1:0",
		Logger:  slog.New(slog.DiscardHandler),
		OnRecord: func(connID string, line []byte) {
			received.add(line)
		},
	})
	if err := server.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { server.Stop() })
	return server, received
}

func TestServerReceivesShippedRecords(t *testing.T) {
	server, received := startTestServer(t)

	host, port := splitAddr(t, server)
	conf := shipper.DefaultConfig()
	conf.Host = host
	conf.Port = port
	conf.UseTLS = false
	conf.FlushInterval = -1

	ship, err := shipper.New(conf)
	if err != nil {
		t.Fatalf("shipper.New: %v", err)
	}
	defer ship.Close()

	var enc encode.Encoder
	for i := 0; i < 3; i++ {
		ship.Enqueue(enc.Encode(record.Record{
			Level:     record.LevelInfo,
			Message:   fmt.Sprintf("collect-%d", i),
			Timestamp: time.Now(),
		}))
	}

	errC := make(chan error, 1)
	ship.Flush(func(err error) { errC <- err })
	select {
	case err := <-errC:
		if err != nil {
			t.Fatalf("flush: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("flush never completed")
	}

	deadline := time.Now().Add(2 * time.Second)
	for server.Received() != 3 {
		if time.Now().After(deadline) {
			t.Fatalf("received %d records, want 3", server.Received())
		}
		time.Sleep(10 * time.Millisecond)
	}

	for i, line := range received.all() {
		if want := fmt.Sprintf("collect-%d", i); !strings.Contains(line, want) {
			t.Errorf("line %d missing %q: %s", i, want, line)
		}
	}
}

func splitAddr(t *testing.T, server *Server) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(server.Addr().String())
	if err != nil {
		t.Fatalf("bad addr %q: %v", server.Addr(), err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("bad port %q: %v", portStr, err)
	}
	return host, port
}

func TestFormatRecord(t *testing.T) {
	line := []byte(`{"timestamp":"2026-07-01T12:00:00Z","level":"error","message":"save failed","fields":{"environment":"test"},"errors":[{"domain":"storage","code":507,"message":"disk full"}]}`)
	out := formatRecord(line)

	for _, want := range []string{"error", "save failed", "environment", "storage", "disk full"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted record missing %q:\n%s", want, out)
		}
	}
}

func TestFormatRecordUnparseable(t *testing.T) {
	out := formatRecord([]byte("not json"))
	if !strings.Contains(out, "unparseable") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestServerStopIsIdempotent(t *testing.T) {
	server, _ := startTestServer(t)
	if err := server.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := server.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

// brokenListener always fails Accept with a transient error.
type brokenListener struct {
	accepts atomic.Int64
}

func (l *brokenListener) Accept() (net.Conn, error) {
	l.accepts.Add(1)
	return nil, fmt.Errorf("accept tcp: too many open files")
}

func (l *brokenListener) Close() error   { return nil }
func (l *brokenListener) Addr() net.Addr { return &net.TCPAddr{} }

func TestAcceptLoopThrottlesPersistentErrors(t *testing.T) {
	server := NewServer(ServerConfig{Logger: slog.New(slog.DiscardHandler)})
	listener := &brokenListener{}
	server.listener = listener
	server.running.Store(true)

	server.wg.Add(1)
	go server.acceptLoop()

	time.Sleep(350 * time.Millisecond)
	server.running.Store(false)
	server.wg.Wait()

	if n := listener.accepts.Load(); n > 10 {
		t.Fatalf("accept retried %d times in 350ms, want a throttled retry rate", n)
	}
}
