package main

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// maxLineSize bounds a single record line (1 MiB).
const maxLineSize = 1 << 20

// acceptRetryDelay throttles the accept loop after a transient error.
const acceptRetryDelay = 100 * time.Millisecond

// ServerConfig configures the collector listener.
type ServerConfig struct {
	// Address to listen on (e.g., ":9300" or "127.0.0.1:9300").
	Address string

	// TLSConfig enables TLS when non-nil.
	TLSConfig *tls.Config

	// OnRecord is called for each received record line.
	OnRecord func(connID string, line []byte)

	// Logger for operational diagnostics.
	Logger *slog.Logger
}

// Server accepts log shipper connections and reads newline-delimited
// JSON records from them.
type Server struct {
	config   ServerConfig
	listener net.Listener
	logger   *slog.Logger

	conns   map[string]net.Conn
	connsMu sync.Mutex

	running  atomic.Bool
	received atomic.Uint64
	wg       sync.WaitGroup
}

// NewServer creates a collector server.
func NewServer(config ServerConfig) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Server{
		config: config,
		logger: config.Logger,
		conns:  make(map[string]net.Conn),
	}
}

// Start begins accepting connections.
func (s *Server) Start() error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if s.config.TLSConfig != nil {
		listener = tls.NewListener(listener, s.config.TLSConfig)
	}
	s.listener = listener
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("collector listening", "addr", listener.Addr().String())
	return nil
}

// Stop closes the listener and all connections.
func (s *Server) Stop() error {
	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)

	if s.listener != nil {
		s.listener.Close()
	}

	s.connsMu.Lock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// Received returns the total number of record lines read.
func (s *Server) Received() uint64 {
	return s.received.Load()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			// Transient accept failures (e.g. fd exhaustion) must not
			// busy-spin the loop.
			s.logger.Warn("accept failed", "error", err)
			time.Sleep(acceptRetryDelay)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	connID := uuid.NewString()
	s.connsMu.Lock()
	s.conns[connID] = conn
	s.connsMu.Unlock()

	s.logger.Info("shipper connected",
		"conn_id", connID,
		"remote", conn.RemoteAddr().String(),
	)

	defer func() {
		conn.Close()
		s.connsMu.Lock()
		delete(s.conns, connID)
		s.connsMu.Unlock()
		s.logger.Info("shipper disconnected", "conn_id", connID)
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.received.Add(1)
		if s.config.OnRecord != nil {
			out := make([]byte, len(line))
			copy(out, line)
			s.config.OnRecord(connID, out)
		}
	}

	if err := scanner.Err(); err != nil && s.running.Load() {
		s.logger.Warn("read failed", "conn_id", connID, "error", err)
	}
}

// formatRecord pretty-prints one received record line.
func formatRecord(line []byte) string {
	var payload struct {
		Timestamp string         `json:"timestamp"`
		Level     string         `json:"level"`
		Message   string         `json:"message"`
		Fields    map[string]any `json:"fields"`
		Errors    []struct {
			Domain  string `json:"domain"`
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(line, &payload); err != nil {
		return fmt.Sprintf("unparseable record: %s", line)
	}

	out := fmt.Sprintf("%s %-7s %s", payload.Timestamp, payload.Level, payload.Message)
	if len(payload.Fields) > 0 {
		data, _ := json.Marshal(payload.Fields)
		out += " " + string(data)
	}
	for _, cause := range payload.Errors {
		out += fmt.Sprintf("\n  error: %s (%d) %s", cause.Domain, cause.Code, cause.Message)
	}
	return out
}
