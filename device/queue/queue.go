// Package queue holds the per-peer accumulator queues that back the
// R2000's multi-packet reply streams: GET_INVENTORY_BUFFER,
// GET_AND_RESET_INVENTORY_BUFFER, TAG_MASK (list form), READ, WRITE,
// WRITE_BLOCK, LOCK, and KILL all reply with a run of records and no
// end-of-stream marker. Completion is detected by the caller comparing
// accumulated length against the count field carried in each record;
// this package only owns the scratch storage, not the completion
// decision.
package queue

import (
	"sync"

	"github.com/impinj-r2000/r2000driver/core/proto"
)

// Queues is one peer address's set of six accumulator buffers. Each
// accumulator holds the raw decoded records of one in-flight
// multi-packet reply; it is drained (and reset) when its consumer
// resolves, and cleared without draining when it is discarded during
// resynchronization.
//
// mu guards every field below: the reader goroutine streams records in
// via Push/Drain while a command goroutine can concurrently discard them
// via Clear/ClearKind (e.g. RESET), so every access to the slices must
// be serialized, not just the Table's address lookup that hands out
// this *Queues.
type Queues struct {
	mu sync.Mutex

	Masks           []any
	InventoryBuffer []any
	Read            []any
	Write           []any
	Lock            []any
	Kill            []any
}

func (q *Queues) slice(kind proto.AccumulatorKind) *[]any {
	switch kind {
	case proto.AccMasks:
		return &q.Masks
	case proto.AccInventoryBuffer:
		return &q.InventoryBuffer
	case proto.AccRead:
		return &q.Read
	case proto.AccWrite:
		return &q.Write
	case proto.AccLock:
		return &q.Lock
	case proto.AccKill:
		return &q.Kill
	default:
		return nil
	}
}

// Push appends a decoded record to the named accumulator and returns
// the accumulator's new length. Pushing to AccNone is a no-op and
// returns 0.
func (q *Queues) Push(kind proto.AccumulatorKind, record any) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.slice(kind)
	if s == nil {
		return 0
	}
	*s = append(*s, record)
	return len(*s)
}

// Len reports the current length of the named accumulator.
func (q *Queues) Len(kind proto.AccumulatorKind) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.slice(kind)
	if s == nil {
		return 0
	}
	return len(*s)
}

// Drain returns the named accumulator's records and resets it to
// empty. Called when the terminal record of a multi-record reply
// resolves the pending command.
func (q *Queues) Drain(kind proto.AccumulatorKind) []any {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.slice(kind)
	if s == nil {
		return nil
	}
	out := *s
	*s = nil
	return out
}

// Clear discards every accumulator for this peer without returning
// their contents. Table.ClearAddr calls it when host-side state is reset
// (RESET, SET_BAUD, SET_MODFN).
func (q *Queues) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Masks = nil
	q.InventoryBuffer = nil
	q.Read = nil
	q.Write = nil
	q.Lock = nil
	q.Kill = nil
}

// ClearKind discards a single accumulator, used when only one
// command's stream needs resetting: a pending entry popped during
// resynchronization must not let its partial records bleed into the
// next consumer.
func (q *Queues) ClearKind(kind proto.AccumulatorKind) {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.slice(kind)
	if s != nil {
		*s = nil
	}
}

// Table owns one Queues per peer address, guarded by a mutex since the
// reader (inbound) and writer (outbound) paths both touch it. A protocol
// with no end-of-stream marker needs an explicit, clearable accumulation
// structure per source rather than a running builder.
type Table struct {
	mu   sync.Mutex
	byAddr map[byte]*Queues
}

// NewTable creates an empty accumulator table.
func NewTable() *Table {
	return &Table{byAddr: make(map[byte]*Queues)}
}

// For returns the Queues for a peer address, creating it on first use.
func (t *Table) For(addr byte) *Queues {
	t.mu.Lock()
	defer t.mu.Unlock()
	q, ok := t.byAddr[addr]
	if !ok {
		q = &Queues{}
		t.byAddr[addr] = q
	}
	return q
}

// ClearAddr discards every accumulator for one peer address.
func (t *Table) ClearAddr(addr byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if q, ok := t.byAddr[addr]; ok {
		q.Clear()
	}
}
