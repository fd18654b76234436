package dispatch

import (
	"testing"

	"github.com/impinj-r2000/r2000driver/core/codec"
	"github.com/impinj-r2000/r2000driver/core/frame"
	"github.com/impinj-r2000/r2000driver/core/proto"
	"github.com/impinj-r2000/r2000driver/core/tag"
	"github.com/impinj-r2000/r2000driver/device/queue"
)

type fakePending struct {
	fifo      []proto.Command
	resolved  []Result
	popped    []proto.Command
	failed    []proto.Command
	refreshed int
}

func (f *fakePending) Front() (proto.Command, bool) {
	if len(f.fifo) == 0 {
		return 0, false
	}
	return f.fifo[0], true
}

func (f *fakePending) PopFront() (proto.Command, bool) {
	if len(f.fifo) == 0 {
		return 0, false
	}
	c := f.fifo[0]
	f.fifo = f.fifo[1:]
	f.popped = append(f.popped, c)
	return c, true
}

func (f *fakePending) FailFront(reason string) (proto.Command, bool) {
	if len(f.fifo) == 0 {
		return 0, false
	}
	c := f.fifo[0]
	f.fifo = f.fifo[1:]
	f.failed = append(f.failed, c)
	return c, true
}

func (f *fakePending) Resolve(r Result) {
	f.fifo = f.fifo[1:]
	f.resolved = append(f.resolved, r)
}

func (f *fakePending) RefreshFrontDeadline() {
	f.refreshed++
}

func newFrame(t *testing.T, addr, cmd byte, payload []byte) *frame.Frame {
	t.Helper()
	encoded := frame.Encode(addr, cmd, payload)
	f, _, err := frame.Decode(encoded)
	if err != nil {
		t.Fatalf("frame.Decode: %v", err)
	}
	return f
}

func TestClassifyPolicyNo(t *testing.T) {
	info := proto.CommandInfo{Code: proto.CmdGetWorkingAntenna, Policy: proto.PolicyNo}
	ec, data := classify(info, []byte{0x01})
	if ec != nil {
		t.Error("PolicyNo should never yield an error code")
	}
	if len(data) != 1 || data[0] != 0x01 {
		t.Errorf("data = %v, want [0x01]", data)
	}
}

func TestClassifyPolicyYesSuccess(t *testing.T) {
	info := proto.CommandInfo{Code: proto.CmdSetWorkingAntenna, Policy: proto.PolicyYes}
	ec, _ := classify(info, []byte{0x10})
	if ec == nil || *ec != proto.ErrSuccess {
		t.Errorf("ec = %v, want ErrSuccess", ec)
	}
}

func TestClassifySometimesRFLinkProfile(t *testing.T) {
	info := proto.CommandInfo{Code: proto.CmdGetRFLinkProfile, Policy: proto.PolicySometimes}
	ec, _ := classify(info, []byte{byte(proto.ProfileP1)})
	if ec != nil {
		t.Errorf("valid profile should not be an error, got %v", ec)
	}
	ec, _ = classify(info, []byte{0x05})
	if ec == nil {
		t.Error("invalid profile byte should classify as an error")
	}
}

func TestClassifySometimesTagMask(t *testing.T) {
	info := proto.CommandInfo{Code: proto.CmdTagMask, Policy: proto.PolicySometimes}
	ec, _ := classify(info, []byte{0x00})
	if ec != nil {
		t.Errorf("zero byte should not be an error, got %v", ec)
	}
	ec, _ = classify(info, []byte{0x01})
	if ec == nil {
		t.Error("nonzero single byte should classify as an error")
	}
}

func TestIsSuccessBufferEmptyScopedToGetAndReset(t *testing.T) {
	bufEmpty := proto.ErrBufferIsEmpty
	if !isSuccess(proto.CmdGetAndResetInventoryBuffer, &bufEmpty) {
		t.Error("BUFFER_IS_EMPTY should be success-equivalent for GET_AND_RESET_INVENTORY_BUFFER")
	}
	if isSuccess(proto.CmdGetInventoryBuffer, &bufEmpty) {
		t.Error("BUFFER_IS_EMPTY should not be success-equivalent for GET_INVENTORY_BUFFER")
	}
}

func TestHandleFrameResolvesMatchingCommand(t *testing.T) {
	pending := &fakePending{fifo: []proto.Command{proto.CmdSetWorkingAntenna}}
	d := New(Config{}, pending, queue.NewTable())

	f := newFrame(t, 0xFF, byte(proto.CmdSetWorkingAntenna), []byte{0x10})
	d.HandleFrame(f)

	if len(pending.resolved) != 1 {
		t.Fatalf("resolved %d entries, want 1", len(pending.resolved))
	}
	if !pending.resolved[0].Success {
		t.Error("expected success result")
	}
}

func TestHandleFrameDropsAddressMismatch(t *testing.T) {
	pending := &fakePending{fifo: []proto.Command{proto.CmdSetWorkingAntenna}}
	d := New(Config{Address: func() byte { return 0x01 }}, pending, queue.NewTable())

	f := newFrame(t, 0x02, byte(proto.CmdSetWorkingAntenna), []byte{0x10})
	d.HandleFrame(f)

	if len(pending.resolved) != 0 {
		t.Error("expected no resolution for a mismatched address")
	}
}

func TestHandleFrameDropsUnknownCommand(t *testing.T) {
	pending := &fakePending{}
	d := New(Config{}, pending, queue.NewTable())

	f := newFrame(t, 0xFF, 0xFF, []byte{0x01})
	d.HandleFrame(f)

	if len(pending.resolved) != 0 {
		t.Error("expected no resolution for an unknown command")
	}
}

func TestHandleFrameAntennaMissingEvent(t *testing.T) {
	var gotAntenna byte
	var gotCode proto.ErrorCode
	pending := &fakePending{fifo: []proto.Command{proto.CmdFastSwitchAntInventory}}
	d := New(Config{
		Events: Events{OnAntennaMissing: func(a byte, c proto.ErrorCode) { gotAntenna, gotCode = a, c }},
	}, pending, queue.NewTable())

	f := newFrame(t, 0xFF, byte(proto.CmdFastSwitchAntInventory), []byte{0x01, byte(proto.ErrAntennaMissing)})
	d.HandleFrame(f)

	if gotAntenna != 0x01 || gotCode != proto.ErrAntennaMissing {
		t.Errorf("got antenna=%d code=%v", gotAntenna, gotCode)
	}
	if pending.refreshed != 1 {
		t.Errorf("refreshed = %d, want 1 (front command matches)", pending.refreshed)
	}
	if len(pending.resolved) != 0 {
		t.Error("antenna-missing event must not consume the pending entry")
	}
}

func TestHandleFrame6BSightingEvent(t *testing.T) {
	var got tag.Tag6B
	pending := &fakePending{}
	d := New(Config{
		Events: Events{On6BTag: func(tg tag.Tag6B) { got = tg }},
	}, pending, queue.NewTable())

	payload := []byte{0x01, 1, 2, 3, 4, 5, 6, 7, 8}
	f := newFrame(t, 0xFF, byte(proto.CmdISO6BInventory), payload)
	d.HandleFrame(f)

	if got.Antenna != 1 {
		t.Errorf("Antenna = %d, want 1", got.Antenna)
	}
}

func TestHandleFrameC1G2SightingEvent(t *testing.T) {
	var got tag.InventoryTag
	pending := &fakePending{fifo: []proto.Command{proto.CmdRealTimeInventory}}
	d := New(Config{
		Events: Events{OnTag: func(tg tag.InventoryTag) { got = tg }},
	}, pending, queue.NewTable())

	// 8 bytes: pack + PC(2) + EPC(4) + RSSI, long enough to clear the
	// dispatcher's event-vs-reply length threshold.
	payload := []byte{0x04, 0x30, 0x00, 0xE2, 0x00, 0x68, 0x11, 0x15}
	f := newFrame(t, 0xFF, byte(proto.CmdRealTimeInventory), payload)
	d.HandleFrame(f)

	if got.RSSIDBm != -108 {
		t.Errorf("RSSIDBm = %d, want -108", got.RSSIDBm)
	}
	if pending.refreshed != 1 {
		t.Errorf("refreshed = %d, want 1", pending.refreshed)
	}
}

func buildBufferedPayload(t *testing.T, count uint16, epc []byte) []byte {
	t.Helper()
	out := make([]byte, 0, 10+len(epc))
	out = append(out, byte(count>>8), byte(count))
	out = append(out, byte(3+len(epc)))
	pcBytes := make([]byte, 2)
	codec.PutBE16(pcBytes, 0x3000)
	out = append(out, pcBytes...)
	out = append(out, epc...)
	crc := codec.CRC16CCITT(out[3:]) ^ 0xFFFF
	crcBytes := make([]byte, 2)
	codec.PutBE16(crcBytes, crc)
	out = append(out, crcBytes...)
	out = append(out, 0x10, 0x00, 0x01)
	return out
}

func TestHandleFrameAccumulatesBufferedInventory(t *testing.T) {
	pending := &fakePending{fifo: []proto.Command{proto.CmdGetInventoryBuffer}}
	d := New(Config{}, pending, queue.NewTable())

	rec1 := buildBufferedPayload(t, 2, []byte{0xE2, 0x00, 0x01})
	rec2 := buildBufferedPayload(t, 2, []byte{0xE2, 0x00, 0x02})

	f1 := newFrame(t, 0xFF, byte(proto.CmdGetInventoryBuffer), rec1)
	d.HandleFrame(f1)
	if len(pending.resolved) != 0 {
		t.Fatal("should not resolve after the first of two records")
	}

	f2 := newFrame(t, 0xFF, byte(proto.CmdGetInventoryBuffer), rec2)
	d.HandleFrame(f2)
	if len(pending.resolved) != 1 {
		t.Fatal("should resolve after the second record completes the count")
	}
	if len(pending.resolved[0].Records) != 2 {
		t.Errorf("resolved with %d records, want 2", len(pending.resolved[0].Records))
	}
}

func TestHandleFrameResyncClearsAccumulator(t *testing.T) {
	pending := &fakePending{fifo: []proto.Command{proto.CmdGetInventoryBuffer, proto.CmdSetWorkingAntenna}}
	queues := queue.NewTable()
	d := New(Config{}, pending, queues)

	// Push a stray buffered record under the wrong front command, then
	// send a reply for the second pending command. GetInventoryBuffer
	// should be popped and cleared, not resolved.
	rec := buildBufferedPayload(t, 5, []byte{0xE2, 0x00, 0x01})
	f1 := newFrame(t, 0xFF, byte(proto.CmdGetInventoryBuffer), rec)
	d.HandleFrame(f1)

	f2 := newFrame(t, 0xFF, byte(proto.CmdSetWorkingAntenna), []byte{0x10})
	d.HandleFrame(f2)

	if len(pending.popped) != 1 || pending.popped[0] != proto.CmdGetInventoryBuffer {
		t.Errorf("popped = %v, want [GetInventoryBuffer]", pending.popped)
	}
	if len(pending.resolved) != 1 || pending.resolved[0].Command != proto.CmdSetWorkingAntenna {
		t.Fatalf("resolved = %v, want SetWorkingAntenna", pending.resolved)
	}
	if got := queues.For(0xFF).Len(proto.AccInventoryBuffer); got != 0 {
		t.Errorf("accumulator should have been cleared on resync, len=%d", got)
	}
}

func TestHandleFrameSingleByteErrorResolvesAccumulatorCommand(t *testing.T) {
	pending := &fakePending{fifo: []proto.Command{proto.CmdGetAndResetInventoryBuffer}}
	d := New(Config{}, pending, queue.NewTable())

	// A 1-byte BUFFER_IS_EMPTY reply is far too short to be a buffered
	// record (minimum 10 bytes); it must resolve as success, not be
	// swallowed waiting for more accumulator packets.
	f := newFrame(t, 0xFF, byte(proto.CmdGetAndResetInventoryBuffer), []byte{byte(proto.ErrBufferIsEmpty)})
	d.HandleFrame(f)

	if len(pending.resolved) != 1 {
		t.Fatalf("resolved %d entries, want 1", len(pending.resolved))
	}
	if !pending.resolved[0].Success {
		t.Error("BUFFER_IS_EMPTY on GET_AND_RESET_INVENTORY_BUFFER should resolve as success")
	}
	if pending.resolved[0].ErrorCode == nil || *pending.resolved[0].ErrorCode != proto.ErrBufferIsEmpty {
		t.Errorf("ErrorCode = %v, want ErrBufferIsEmpty", pending.resolved[0].ErrorCode)
	}
}

func TestHandleFrameSingleByteErrorOnReadResolvesAsFailure(t *testing.T) {
	pending := &fakePending{fifo: []proto.Command{proto.CmdRead}}
	d := New(Config{}, pending, queue.NewTable())

	f := newFrame(t, 0xFF, byte(proto.CmdRead), []byte{byte(proto.ErrNoTag)})
	d.HandleFrame(f)

	if len(pending.resolved) != 1 {
		t.Fatalf("resolved %d entries, want 1", len(pending.resolved))
	}
	if pending.resolved[0].Success {
		t.Error("NO_TAG should not resolve as success")
	}
	if pending.resolved[0].ErrorCode == nil || *pending.resolved[0].ErrorCode != proto.ErrNoTag {
		t.Errorf("ErrorCode = %v, want ErrNoTag", pending.resolved[0].ErrorCode)
	}
	if len(pending.resolved[0].Records) != 0 {
		t.Error("a single-byte error reply must not be treated as an accumulator record")
	}
}

func TestHandleFrameStrictResyncFailsPoppedEntries(t *testing.T) {
	pending := &fakePending{fifo: []proto.Command{proto.CmdGetInventoryBuffer, proto.CmdSetWorkingAntenna}}
	d := New(Config{StrictResync: true}, pending, queue.NewTable())

	rec := buildBufferedPayload(t, 5, []byte{0xE2, 0x00, 0x01})
	f1 := newFrame(t, 0xFF, byte(proto.CmdGetInventoryBuffer), rec)
	d.HandleFrame(f1)

	f2 := newFrame(t, 0xFF, byte(proto.CmdSetWorkingAntenna), []byte{0x10})
	d.HandleFrame(f2)

	if len(pending.failed) != 1 || pending.failed[0] != proto.CmdGetInventoryBuffer {
		t.Errorf("failed = %v, want [GetInventoryBuffer]", pending.failed)
	}
	if len(pending.popped) != 0 {
		t.Errorf("strict resync should fail, not silently pop: popped=%v", pending.popped)
	}
}
