package queue

import (
	"testing"

	"github.com/impinj-r2000/r2000driver/core/proto"
)

func TestPushLenDrain(t *testing.T) {
	q := &Queues{}
	if n := q.Push(proto.AccInventoryBuffer, "rec1"); n != 1 {
		t.Fatalf("Push returned %d, want 1", n)
	}
	if n := q.Push(proto.AccInventoryBuffer, "rec2"); n != 2 {
		t.Fatalf("Push returned %d, want 2", n)
	}
	if got := q.Len(proto.AccInventoryBuffer); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}

	records := q.Drain(proto.AccInventoryBuffer)
	if len(records) != 2 {
		t.Fatalf("Drain returned %d records, want 2", len(records))
	}
	if got := q.Len(proto.AccInventoryBuffer); got != 0 {
		t.Fatalf("Len after Drain = %d, want 0", got)
	}
}

func TestPushAccNoneIsNoop(t *testing.T) {
	q := &Queues{}
	if n := q.Push(proto.AccNone, "x"); n != 0 {
		t.Fatalf("Push(AccNone) returned %d, want 0", n)
	}
}

func TestClearDiscardsAllKinds(t *testing.T) {
	q := &Queues{}
	q.Push(proto.AccMasks, "m")
	q.Push(proto.AccRead, "r")
	q.Push(proto.AccWrite, "w")
	q.Push(proto.AccLock, "l")
	q.Push(proto.AccKill, "k")

	q.Clear()

	for _, kind := range []proto.AccumulatorKind{proto.AccMasks, proto.AccInventoryBuffer, proto.AccRead, proto.AccWrite, proto.AccLock, proto.AccKill} {
		if got := q.Len(kind); got != 0 {
			t.Errorf("Len(%v) after Clear = %d, want 0", kind, got)
		}
	}
}

func TestClearKind(t *testing.T) {
	q := &Queues{}
	q.Push(proto.AccRead, "r1")
	q.Push(proto.AccWrite, "w1")

	q.ClearKind(proto.AccRead)

	if got := q.Len(proto.AccRead); got != 0 {
		t.Errorf("Len(AccRead) = %d, want 0", got)
	}
	if got := q.Len(proto.AccWrite); got != 1 {
		t.Errorf("Len(AccWrite) = %d, want 1 (unaffected)", got)
	}
}

func TestTableForCreatesPerAddress(t *testing.T) {
	tbl := NewTable()
	q1 := tbl.For(0x01)
	q2 := tbl.For(0x02)

	q1.Push(proto.AccRead, "a")
	if got := q2.Len(proto.AccRead); got != 0 {
		t.Errorf("queue for addr 0x02 should be independent, got len %d", got)
	}

	q1Again := tbl.For(0x01)
	if got := q1Again.Len(proto.AccRead); got != 1 {
		t.Errorf("For should return the same Queues on repeat lookup, got len %d", got)
	}
}

func TestTableClearAddr(t *testing.T) {
	tbl := NewTable()
	q := tbl.For(0x01)
	q.Push(proto.AccRead, "a")

	tbl.ClearAddr(0x01)

	if got := q.Len(proto.AccRead); got != 0 {
		t.Errorf("Len after ClearAddr = %d, want 0", got)
	}
}
