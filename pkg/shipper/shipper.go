package shipper

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/funcompany/justlog-go/pkg/encode"
	"github.com/funcompany/justlog-go/pkg/sink"
)

// Shipper buffers encoded records and delivers them to a remote
// collector over TCP. All methods are safe for concurrent use.
//
// Construct with New, feed with Enqueue (or Accept, as a sink), drain
// with Flush or the automatic timer, and release with Close.
type Shipper struct {
	conf     Config
	buf      *Buffer
	dialer   Dialer
	backoff  *Backoff
	activity *slog.Logger

	state     atomic.Uint32
	delivered atomic.Uint64

	// pending flush callbacks; consumed by the delivery goroutine.
	mu      sync.Mutex
	pending []func(error)
	closed  bool

	// in-flight attempt handles, reachable from Cancel.
	attemptMu     sync.Mutex
	attemptCancel context.CancelFunc
	conn          net.Conn
	cancelled     bool

	connID string

	flushC chan struct{}
	stopC  chan struct{}
	doneC  chan struct{}

	// retryAt gates timer-driven attempts after a failure.
	// Owned by the delivery goroutine.
	retryAt time.Time
}

// Stats is a point-in-time view of shipper counters.
type Stats struct {
	// State is the current connection state.
	State ConnState

	// Buffered is the number of records awaiting delivery.
	Buffered int

	// Delivered is the total number of records written successfully.
	Delivered uint64

	// Dropped is the total number of records lost to buffer overflow.
	Dropped uint64
}

// New creates a Shipper and starts its delivery goroutine.
func New(conf Config) (*Shipper, error) {
	conf = conf.withDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	s := &Shipper{
		conf:    conf,
		buf:     NewBuffer(conf.BufferCapacity, conf.OverflowPolicy),
		dialer:  conf.Dialer,
		backoff: NewBackoff(),
		flushC:  make(chan struct{}, 1),
		stopC:   make(chan struct{}),
		doneC:   make(chan struct{}),
	}
	if s.dialer == nil {
		s.dialer = newDialer(conf)
	}

	s.activity = conf.ActivityLog
	if !conf.LogActivity {
		s.activity = slog.New(slog.DiscardHandler)
	} else if s.activity == nil {
		s.activity = slog.Default()
	}

	go s.loop()
	return s, nil
}

// Enqueue appends the record to the delivery buffer. It never blocks
// and never fails from the caller's perspective; the overflow policy
// is applied when the buffer is full.
func (s *Shipper) Enqueue(e encode.Encoded) {
	if !s.buf.Enqueue(e) {
		s.activity.Debug("record rejected, buffer full", "id", e.ID)
	}
}

// Accept implements the sink interface by enqueueing the record.
func (s *Shipper) Accept(e encode.Encoded) error {
	s.Enqueue(e)
	return nil
}

// Flush triggers an attempt to drain the buffer over the network and
// returns immediately. The callback is invoked exactly once, with nil
// after all buffered records were delivered or with a DeliveryError.
// cb may be nil. Concurrent Flush calls coalesce with or queue behind
// an in-flight attempt; a second parallel socket is never opened.
func (s *Shipper) Flush(cb func(error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if cb != nil {
			go cb(ErrClosed)
		}
		return
	}
	s.pending = append(s.pending, cb)
	s.mu.Unlock()

	select {
	case s.flushC <- struct{}{}:
	default:
		// Attempt already signalled.
	}
}

// Cancel aborts any in-flight flush attempt and closes the connection.
// Buffered but undelivered records are kept for a future flush. Cancel
// returns once the socket is closed; a pending flush callback still
// fires, reporting the cancellation as an error.
func (s *Shipper) Cancel() {
	s.attemptMu.Lock()
	s.cancelled = true
	if s.attemptCancel != nil {
		s.attemptCancel()
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.setState(StateDisconnected)
	}
	s.attemptMu.Unlock()

	s.activity.Debug("cancelled", "buffered", s.buf.Len())
}

// Close stops the flush timer and the delivery goroutine, aborting any
// in-flight attempt. Buffered records are not delivered. Safe to call
// multiple times.
func (s *Shipper) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stopC)
	s.Cancel()
	<-s.doneC
	return nil
}

// State returns the current connection state.
func (s *Shipper) State() ConnState {
	return ConnState(s.state.Load())
}

// Stats returns current shipper counters.
func (s *Shipper) Stats() Stats {
	return Stats{
		State:     s.State(),
		Buffered:  s.buf.Len(),
		Delivered: s.delivered.Load(),
		Dropped:   s.buf.Dropped(),
	}
}

// loop is the delivery goroutine: the single owner of the connection
// and of flush execution, so concurrent triggers serialize here.
func (s *Shipper) loop() {
	defer close(s.doneC)

	var tickC <-chan time.Time
	if s.conf.FlushInterval > 0 {
		ticker := time.NewTicker(s.conf.FlushInterval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		select {
		case <-s.stopC:
			s.shutdown()
			return
		case <-s.flushC:
			s.runFlush()
		case <-tickC:
			s.runFlush()
		}
	}
}

// runFlush executes one coalesced flush attempt. Callbacks registered
// before the attempt are answered by it; callbacks arriving during the
// attempt queue strictly behind it and re-signal the loop.
func (s *Shipper) runFlush() {
	s.mu.Lock()
	cbs := s.pending
	s.pending = nil
	s.mu.Unlock()

	// Automatic attempts honor the retry backoff. Explicit Flush
	// requests always registered a callback entry, so they don't.
	if len(cbs) == 0 && !s.retryAt.IsZero() && time.Now().Before(s.retryAt) {
		return
	}

	if s.buf.Len() == 0 {
		s.finish(cbs, nil)
		return
	}

	err := s.attempt()
	if err != nil {
		delay := s.backoff.Next()
		s.retryAt = time.Now().Add(delay)
		s.activity.Debug("flush failed",
			"error", err,
			"buffered", s.buf.Len(),
			"retry_in", delay,
		)
	} else {
		s.backoff.Reset()
		s.retryAt = time.Time{}
	}

	s.finish(cbs, err)
}

// attempt connects if needed and drains the buffer in queue order.
// A record is removed from the buffer only after its write returned
// successfully.
func (s *Shipper) attempt() error {
	conn, err := s.ensureConn()
	if err != nil {
		return err
	}

	for _, e := range s.buf.Snapshot() {
		conn.SetWriteDeadline(time.Now().Add(s.conf.Timeout))
		if _, werr := conn.Write(e.Payload); werr != nil {
			s.dropConn(conn)
			s.setState(StateDisconnected)
			return &DeliveryError{
				Op:        "write",
				Kind:      classify("write", werr, s.consumeCancelled()),
				Remaining: s.buf.Len(),
				Err:       werr,
			}
		}
		conn.SetWriteDeadline(time.Time{})
		s.buf.Remove(e.ID)
		s.delivered.Add(1)
	}

	s.activity.Debug("flush complete",
		"conn_id", s.connID,
		"delivered_total", s.delivered.Load(),
	)
	return nil
}

// ensureConn returns the live connection, dialing a new one if needed.
func (s *Shipper) ensureConn() (net.Conn, error) {
	s.attemptMu.Lock()
	s.cancelled = false
	conn := s.conn
	s.attemptMu.Unlock()
	if conn != nil {
		return conn, nil
	}

	s.setState(StateConnecting)
	s.activity.Debug("connecting", "addr", s.conf.addr())

	ctx, cancel := context.WithTimeout(context.Background(), s.conf.Timeout)
	defer cancel()

	s.attemptMu.Lock()
	s.attemptCancel = cancel
	s.attemptMu.Unlock()

	conn, err := s.dialer.DialContext(ctx, "tcp", s.conf.addr())

	s.attemptMu.Lock()
	s.attemptCancel = nil
	wasCancelled := s.cancelled
	if err == nil && !wasCancelled {
		s.conn = conn
	}
	s.attemptMu.Unlock()

	if err != nil {
		s.setState(StateDisconnected)
		return nil, &DeliveryError{
			Op:        "connect",
			Kind:      classify("connect", err, wasCancelled),
			Remaining: s.buf.Len(),
			Err:       err,
		}
	}
	if wasCancelled {
		// Cancel raced the dial; treat the attempt as aborted.
		conn.Close()
		s.setState(StateDisconnected)
		return nil, &DeliveryError{
			Op:        "connect",
			Kind:      ErrCancelled,
			Remaining: s.buf.Len(),
			Err:       ErrCancelled,
		}
	}

	s.connID = uuid.NewString()
	s.setState(StateConnected)
	s.activity.Debug("connected", "conn_id", s.connID, "addr", s.conf.addr())
	return conn, nil
}

// dropConn closes the broken connection unless Cancel got there first.
func (s *Shipper) dropConn(conn net.Conn) {
	s.attemptMu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.attemptMu.Unlock()
	conn.Close()
}

// consumeCancelled reads and clears the cancel flag.
func (s *Shipper) consumeCancelled() bool {
	s.attemptMu.Lock()
	defer s.attemptMu.Unlock()
	was := s.cancelled
	s.cancelled = false
	return was
}

// finish reports the attempt outcome to the collected callbacks,
// each exactly once.
func (s *Shipper) finish(cbs []func(error), err error) {
	for _, cb := range cbs {
		if cb != nil {
			cb(err)
		}
	}
}

// shutdown closes the connection and fails callbacks still pending.
func (s *Shipper) shutdown() {
	s.setState(StateClosing)

	s.attemptMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.attemptMu.Unlock()

	s.mu.Lock()
	cbs := s.pending
	s.pending = nil
	s.mu.Unlock()
	s.finish(cbs, ErrClosed)

	s.setState(StateDisconnected)
}

func (s *Shipper) setState(next ConnState) {
	prev := ConnState(s.state.Swap(uint32(next)))
	if prev != next {
		s.activity.Debug("state change",
			"old_state", prev.String(),
			"new_state", next.String(),
		)
	}
}

// Compile-time interface satisfaction check.
var _ sink.Sink = (*Shipper)(nil)
