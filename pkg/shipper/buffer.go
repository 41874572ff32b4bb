package shipper

import (
	"sync"

	"github.com/funcompany/justlog-go/pkg/encode"
)

// OverflowPolicy controls what happens when a record is enqueued into
// a full buffer. Overflow is the only form of permanent data loss; it
// is counted, never silent in the stats.
type OverflowPolicy uint8

const (
	// DropOldest evicts the oldest buffered record to make room.
	DropOldest OverflowPolicy = iota

	// RejectNew discards the incoming record instead.
	RejectNew
)

// String returns the policy name.
func (p OverflowPolicy) String() string {
	switch p {
	case DropOldest:
		return "drop-oldest"
	case RejectNew:
		return "reject-new"
	default:
		return "unknown"
	}
}

// Buffer is the ordered delivery queue. Insertion order is preserved
// and no record is ever duplicated. All methods are safe for
// concurrent use; Enqueue takes the lock only briefly so logging
// calls never stall.
type Buffer struct {
	mu       sync.Mutex
	items    []encode.Encoded
	capacity int
	policy   OverflowPolicy
	dropped  uint64
}

// NewBuffer creates a buffer bounded at capacity records.
// capacity <= 0 means unbounded.
func NewBuffer(capacity int, policy OverflowPolicy) *Buffer {
	return &Buffer{
		capacity: capacity,
		policy:   policy,
	}
}

// Enqueue appends e to the queue, applying the overflow policy when
// the buffer is full. Returns false only when the record was rejected
// under RejectNew.
func (b *Buffer) Enqueue(e encode.Encoded) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capacity > 0 && len(b.items) >= b.capacity {
		b.dropped++
		if b.policy == RejectNew {
			return false
		}
		// DropOldest: evict the head.
		copy(b.items, b.items[1:])
		b.items = b.items[:len(b.items)-1]
	}

	b.items = append(b.items, e)
	return true
}

// Snapshot returns the buffered records in queue order. The returned
// slice is a copy; the buffer retains ownership of the records until
// they are removed.
func (b *Buffer) Snapshot() []encode.Encoded {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]encode.Encoded, len(b.items))
	copy(out, b.items)
	return out
}

// Remove deletes the record with the given ID, if still buffered.
// Called after the record's write was acknowledged; a record already
// evicted by overflow is a no-op.
func (b *Buffer) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, e := range b.items {
		if e.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of buffered records.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Dropped returns the total number of records lost to overflow.
func (b *Buffer) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
