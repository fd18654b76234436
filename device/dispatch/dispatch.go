// Package dispatch implements the R2000 response dispatcher: the ordered classification pipeline that turns one decoded
// frame into either a consumed pending-command resolution or an
// unsolicited event, resynchronizing the pending-command list on
// mismatch.
package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/impinj-r2000/r2000driver/core/frame"
	"github.com/impinj-r2000/r2000driver/core/proto"
	"github.com/impinj-r2000/r2000driver/core/tag"
	"github.com/impinj-r2000/r2000driver/device/queue"
)

// Result is what the dispatcher hands to the pending-command resolver
// once a reply is judged complete.
type Result struct {
	Command   proto.Command
	Address   byte
	Payload   []byte // single-reply data (post error-classification); nil for multi-record replies
	Records   []any  // drained accumulator records for multi-record replies; nil otherwise
	ErrorCode *proto.ErrorCode
	Success   bool
}

// PendingSink is the pending-command FIFO the dispatcher resolves
// against. device/reader implements this; dispatch never constructs
// or owns pending entries itself.
type PendingSink interface {
	// Front reports the command code of the head pending entry.
	Front() (proto.Command, bool)
	// PopFront discards the head pending entry without resolving it.
	PopFront() (proto.Command, bool)
	// FailFront discards the head pending entry and fails its waiting
	// caller with reason. Used only when StrictResync is enabled.
	FailFront(reason string) (proto.Command, bool)
	// Resolve completes and removes the head pending entry.
	Resolve(Result)
	// RefreshFrontDeadline extends the head entry's deadline; used when
	// an inventory event arrives so a long inventory round does not
	// time out waiting for its terminal summary reply.
	RefreshFrontDeadline()
}

// Events holds the callbacks for unsolicited packets that never
// consume a pending-command entry. Any field may
// be left nil.
type Events struct {
	OnTag            func(tag.InventoryTag)
	OnAntennaMissing func(antenna byte, code proto.ErrorCode)
	On6BTag          func(tag.Tag6B)
}

// Config configures a Dispatcher.
type Config struct {
	// Address returns the currently configured target address (0xFF =
	// broadcast). Read on every frame since SET_ADDR can change it.
	Address func() byte

	// PhaseMode reports whether the engine's most recent start-inventory
	// call requested phase-angle reporting
	PhaseMode func() bool

	Events Events

	// StrictResync hard-fails every pending entry popped during a
	// resync scan instead of only clearing its accumulator queue.
	// Default false matches the protocol's best-effort resync behavior;
	// true is a stricter, supplemented alternative.
	StrictResync bool

	// Logger for gate-level debug tracing. Falls back to slog.Default()
	// if nil.
	Logger *slog.Logger
}

// Dispatcher runs each inbound frame through an ordered, early-return
// sequence of gates: integrity, address filter, command validity, error
// classification, event demux, multi-packet accumulation, resolve/resync.
type Dispatcher struct {
	cfg     Config
	log     *slog.Logger
	queues  *queue.Table
	pending PendingSink
}

// New creates a Dispatcher. pending is the FIFO it resolves against;
// queues is the per-address accumulator table it reads and clears.
func New(cfg Config, pending PendingSink, queues *queue.Table) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Address == nil {
		cfg.Address = func() byte { return 0xFF }
	}
	if cfg.PhaseMode == nil {
		cfg.PhaseMode = func() bool { return false }
	}
	return &Dispatcher{
		cfg:     cfg,
		log:     logger.WithGroup("dispatch"),
		queues:  queues,
		pending: pending,
	}
}

// HandleFrame runs one decoded frame through the classification
// pipeline. It never returns an error: every failure mode is a drop,
// logged at debug.
func (d *Dispatcher) HandleFrame(f *frame.Frame) {
	// Gate 1: integrity. core/frame.Decode already validated this frame,
	// but a defensive re-check costs nothing.
	if f.Length < frame.MinLength {
		d.log.Debug("dropping frame with invalid length", "length", f.Length)
		return
	}

	// Gate 2: address filter.
	target := d.cfg.Address()
	if target != 0xFF && f.Address != target {
		d.log.Debug("dropping frame for unmatched address", "address", f.Address, "target", target)
		return
	}

	// Gate 3: command validity.
	cmd := proto.Command(f.Command)
	info, ok := proto.Describe(cmd)
	if !ok {
		d.log.Debug("dropping frame with unknown command", "command", f.Command)
		return
	}

	// Gate 4: error classification.
	errCode, data := classify(info, f.Payload)

	// Gate 5: event demultiplex — these never consume a pending entry.
	if d.handleEvent(cmd, f.Payload) {
		return
	}

	// Gate 6: multi-packet accumulation.
	accKind := proto.AccumulatorFor(cmd, len(f.Payload))
	if accKind != proto.AccNone {
		if !d.accumulate(cmd, f.Address, f.Payload, accKind) {
			return // swallowed: more records expected
		}
		d.resolveOrResync(Result{
			Command: cmd,
			Address: f.Address,
			Records: d.queues.For(f.Address).Drain(accKind),
			Success: true,
		})
		return
	}

	// Gate 7: resolve or resync.
	d.resolveOrResync(Result{
		Command:   cmd,
		Address:   f.Address,
		Payload:   data,
		ErrorCode: errCode,
		Success:   isSuccess(cmd, errCode),
	})
}

// handleEvent reports whether payload matches one of the three
// unsolicited-event shapes and, if so, dispatches
// it and refreshes the front pending entry's deadline.
func (d *Dispatcher) handleEvent(cmd proto.Command, payload []byte) bool {
	switch {
	case cmd == proto.CmdFastSwitchAntInventory && len(payload) == 2:
		// length == 5 on the wire == 2 bytes of payload.
		d.refreshIfFront(cmd)
		if d.cfg.Events.OnAntennaMissing != nil {
			d.cfg.Events.OnAntennaMissing(payload[0], proto.ErrorCode(payload[1]))
		}
		return true

	case cmd == proto.CmdISO6BInventory && len(payload) == 9:
		t, err := tag.ParseISO6BSighting(payload)
		if err != nil {
			d.log.Debug("failed to parse 6B sighting", "error", err)
			return true
		}
		d.refreshIfFront(cmd)
		if d.cfg.Events.On6BTag != nil {
			d.cfg.Events.On6BTag(t)
		}
		return true

	case isInventoryStreamCommand(cmd) && len(payload) > 7:
		t, err := tag.ParseInventorySighting(payload, d.cfg.PhaseMode())
		if err != nil {
			d.log.Debug("failed to parse inventory sighting", "error", err)
			return true
		}
		d.refreshIfFront(cmd)
		if d.cfg.Events.OnTag != nil {
			d.cfg.Events.OnTag(t)
		}
		return true
	}
	return false
}

func isInventoryStreamCommand(cmd proto.Command) bool {
	switch cmd {
	case proto.CmdRealTimeInventory, proto.CmdFastSwitchAntInventory, proto.CmdCustomizedSessionTargetInventory:
		return true
	default:
		return false
	}
}

// refreshIfFront extends the front pending entry's deadline only if it
// matches the event's command.
func (d *Dispatcher) refreshIfFront(cmd proto.Command) {
	if front, ok := d.pending.Front(); ok && front == cmd {
		d.pending.RefreshFrontDeadline()
	}
}

// accumulate parses one multi-record reply packet into the matching
// accumulator and reports whether the stream is now complete (queue
// length reached the count field carried in the record).
func (d *Dispatcher) accumulate(cmd proto.Command, addr byte, payload []byte, kind proto.AccumulatorKind) bool {
	record, count, err := parseRecord(cmd, payload)
	if err != nil {
		d.log.Debug("failed to parse accumulator record", "command", cmd, "error", err)
		return false
	}
	n := d.queues.For(addr).Push(kind, record)
	return n >= count
}

// resolveOrResync pops non-matching pending entries until the front
// matches result.Command, clearing each popped entry's accumulator
// queue, then resolves. If the pending list empties without a match,
// the result is dropped and logged out-of-sync.
func (d *Dispatcher) resolveOrResync(result Result) {
	for {
		front, ok := d.pending.Front()
		if !ok {
			d.log.Debug("dropping reply with no pending command", "command", result.Command)
			return
		}
		if front == result.Command {
			d.pending.Resolve(result)
			return
		}
		if d.cfg.StrictResync {
			d.pending.FailFront("resync: reply for a different command arrived at the head of the pending list")
		} else {
			d.pending.PopFront()
		}
		d.queues.For(result.Address).ClearKind(proto.AccumulatorKindOf(front))
		d.log.Debug("resync: discarded non-matching pending entry", "popped", front, "want", result.Command, "strict", d.cfg.StrictResync)
	}
}

// parseRecord decodes one accumulator record for cmd and returns its
// carried total-count field.
func parseRecord(cmd proto.Command, payload []byte) (record any, count int, err error) {
	switch cmd {
	case proto.CmdGetInventoryBuffer, proto.CmdGetAndResetInventoryBuffer:
		rec, err := tag.ParseBufferedRecord(payload)
		if err != nil {
			return nil, 0, err
		}
		return rec, rec.TotalCount, nil
	case proto.CmdRead:
		rec, err := tag.ParseReadRecord(payload)
		if err != nil {
			return nil, 0, err
		}
		return rec, rec.TotalCount, nil
	case proto.CmdWrite, proto.CmdWriteBlock, proto.CmdLock, proto.CmdKill:
		rec, err := tag.ParseWriteLockKillRecord(payload)
		if err != nil {
			return nil, 0, err
		}
		return rec, rec.TotalCount, nil
	case proto.CmdTagMask:
		header, err := frame.RecordCountHeader(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("dispatch: tag mask record too short: %d bytes", len(payload))
		}
		raw := make([]byte, len(payload))
		copy(raw, payload)
		return raw, int(header), nil
	default:
		return nil, 0, fmt.Errorf("dispatch: no accumulator record parser for command 0x%02X", byte(cmd))
	}
}
