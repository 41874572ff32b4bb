// Package shipper delivers buffered log records to a remote collector
// over TCP.
//
// Records enter through Enqueue, which appends to an ordered, bounded
// delivery buffer and never blocks the caller. A single owner goroutine
// drains the buffer over the socket: flush attempts are triggered by a
// periodic timer or an explicit Flush call, and concurrent triggers
// coalesce into one attempt; the shipper never opens parallel sockets.
//
// Transient failures keep undelivered records in the buffer; a record
// leaves the buffer only after its write to the socket returns
// successfully. Cancel aborts the in-flight network attempt without
// discarding anything. The only permanent data loss is buffer overflow,
// governed by an explicit policy (drop-oldest or reject-new).
//
// # Retry Strategy
//
// Timer-driven attempts after a failure back off exponentially with
// jitter (1s, 2s, 4s ... capped at 60s) and reset on success. Explicit
// Flush calls always attempt immediately.
//
// Wire format: each record is one newline-terminated JSON line
// (see pkg/encode), optionally under TLS.
package shipper
