package shipper

import (
	"fmt"
	"testing"
)

func bufferMessages(b *Buffer) []string {
	var msgs []string
	for _, e := range b.Snapshot() {
		msgs = append(msgs, e.Record.Message)
	}
	return msgs
}

func TestBufferPreservesOrder(t *testing.T) {
	b := NewBuffer(0, DropOldest)
	for i := 0; i < 5; i++ {
		if !b.Enqueue(encodedMsg(fmt.Sprintf("m%d", i))) {
			t.Fatalf("enqueue %d rejected", i)
		}
	}
	want := []string{"m0", "m1", "m2", "m3", "m4"}
	got := bufferMessages(b)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBufferDropOldest(t *testing.T) {
	b := NewBuffer(2, DropOldest)
	b.Enqueue(encodedMsg("a"))
	b.Enqueue(encodedMsg("b"))
	if !b.Enqueue(encodedMsg("c")) {
		t.Fatal("drop-oldest enqueue should report accepted")
	}

	got := bufferMessages(b)
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("buffer = %v, want [b c]", got)
	}
	if b.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", b.Dropped())
	}
}

func TestBufferRejectNew(t *testing.T) {
	b := NewBuffer(2, RejectNew)
	b.Enqueue(encodedMsg("a"))
	b.Enqueue(encodedMsg("b"))
	if b.Enqueue(encodedMsg("c")) {
		t.Fatal("reject-new enqueue should report rejected")
	}

	got := bufferMessages(b)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("buffer = %v, want [a b]", got)
	}
	if b.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", b.Dropped())
	}
}

func TestBufferRemove(t *testing.T) {
	b := NewBuffer(0, DropOldest)
	first := encodedMsg("a")
	second := encodedMsg("b")
	b.Enqueue(first)
	b.Enqueue(second)

	b.Remove(first.ID)
	got := bufferMessages(b)
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("buffer = %v, want [b]", got)
	}

	// Removing an already evicted record changes nothing.
	b.Remove(first.ID)
	if b.Len() != 1 {
		t.Errorf("len = %d, want 1", b.Len())
	}
}

func TestBufferSnapshotIsCopy(t *testing.T) {
	b := NewBuffer(0, DropOldest)
	b.Enqueue(encodedMsg("a"))

	snap := b.Snapshot()
	snap[0].Record.Message = "mutated"

	if got := bufferMessages(b); got[0] != "a" {
		t.Errorf("snapshot mutation leaked into buffer: %v", got)
	}
}

func TestOverflowPolicyString(t *testing.T) {
	if DropOldest.String() != "drop-oldest" {
		t.Errorf("DropOldest.String() = %q", DropOldest.String())
	}
	if RejectNew.String() != "reject-new" {
		t.Errorf("RejectNew.String() = %q", RejectNew.String())
	}
}
