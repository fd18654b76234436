package reader

import (
	"context"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/codec"
	"github.com/impinj-r2000/r2000driver/core/proto"
	"github.com/impinj-r2000/r2000driver/core/tag"
)

// ReadTags reads wordLen words starting at wordAddr from bank on every
// tag in the field, draining the per-tag reply records accumulated for
// the call.
func (r *Reader) ReadTags(ctx context.Context, bank proto.MemoryBank, wordAddr byte, wordLen byte) ([]tag.ReadRecord, error) {
	payload := []byte{byte(bank), wordAddr, wordLen, 0, 0, 0, 0} // password defaults to 0x00000000
	result, err := r.send(ctx, proto.CmdRead, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(proto.CmdRead, result); err != nil {
		return nil, err
	}
	return castRecords[tag.ReadRecord](result.Records), nil
}

// WriteTags writes data into bank starting at wordAddr on every tag
// matching the current access filter. Odd-length data is zero-padded to
// an even byte count before the word count is computed.
// blockWrite selects WRITE_BLOCK over WRITE.
func (r *Reader) WriteTags(ctx context.Context, bank proto.MemoryBank, wordAddr byte, data []byte, password [4]byte, blockWrite bool) ([]tag.WriteLockKillRecord, error) {
	data = padEven(data)
	wordCount := byte(len(data) / 2)

	payload := make([]byte, 0, 7+len(data))
	payload = append(payload, byte(bank), wordAddr, wordCount)
	payload = append(payload, password[:]...)
	payload = append(payload, data...)

	cmd := proto.CmdWrite
	if blockWrite {
		cmd = proto.CmdWriteBlock
	}
	result, err := r.send(ctx, cmd, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(cmd, result); err != nil {
		return nil, err
	}
	return castRecords[tag.WriteLockKillRecord](result.Records), nil
}

// LockTags applies op to bank on every tag matching the current access
// filter.
func (r *Reader) LockTags(ctx context.Context, bank proto.LockBank, op proto.LockType, password [4]byte) ([]tag.WriteLockKillRecord, error) {
	payload := append([]byte{byte(bank), byte(op)}, password[:]...)
	result, err := r.send(ctx, proto.CmdLock, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(proto.CmdLock, result); err != nil {
		return nil, err
	}
	return castRecords[tag.WriteLockKillRecord](result.Records), nil
}

// KillTags permanently disables every tag matching the current access
// filter.
func (r *Reader) KillTags(ctx context.Context, password [4]byte) ([]tag.WriteLockKillRecord, error) {
	result, err := r.send(ctx, proto.CmdKill, password[:], r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(proto.CmdKill, result); err != nil {
		return nil, err
	}
	return castRecords[tag.WriteLockKillRecord](result.Records), nil
}

// SetAccessEPCMatch restricts subsequent tag operations to tags whose EPC
// matches epc starting at the given bit mode/offset. epc must be 1..62
// bytes.
func (r *Reader) SetAccessEPCMatch(ctx context.Context, mode byte, epc []byte) error {
	if err := validateEPCMatch(epc); err != nil {
		return err
	}
	payload := make([]byte, 0, 2+len(epc))
	payload = append(payload, mode, byte(len(epc)))
	payload = append(payload, epc...)
	result, err := r.send(ctx, proto.CmdSetAccessEPCMatch, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetAccessEPCMatch, result)
}

// ClearAccessEPCMatch disables the access EPC match filter, restoring
// unfiltered tag operations.
func (r *Reader) ClearAccessEPCMatch(ctx context.Context) error {
	result, err := r.send(ctx, proto.CmdSetAccessEPCMatch, []byte{0, 0}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetAccessEPCMatch, result)
}

// AccessEPCMatch is the decoded GET_ACCESS_EPC_MATCH reply.
type AccessEPCMatch struct {
	Enabled bool
	Mode    byte
	EPC     []byte
}

// GetAccessEPCMatch reads the current access EPC match filter.
// GET_ACCESS_EPC_MATCH uses PolicyIfSingleByteData: a single-byte reply
// means the filter is disabled, anything longer carries {mode, epc}.
func (r *Reader) GetAccessEPCMatch(ctx context.Context) (AccessEPCMatch, error) {
	result, err := r.send(ctx, proto.CmdGetAccessEPCMatch, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return AccessEPCMatch{}, err
	}
	if result.ErrorCode != nil {
		return AccessEPCMatch{Enabled: false}, nil
	}
	if len(result.Payload) < 1 {
		return AccessEPCMatch{}, fmt.Errorf("reader: access epc match reply empty")
	}
	return AccessEPCMatch{Enabled: true, Mode: result.Payload[0], EPC: result.Payload[1:]}, nil
}

// SetTagMask sets one access tag mask slot.
func (r *Reader) SetTagMask(ctx context.Context, maskID byte, bank proto.MemoryBank, offsetBits uint16, mask []byte) error {
	payload := make([]byte, 0, 5+len(mask))
	payload = append(payload, maskID, byte(bank))
	offsetBytes := make([]byte, 2)
	codec.PutBE16(offsetBytes, offsetBits)
	payload = append(payload, offsetBytes...)
	payload = append(payload, byte(len(mask)*8))
	payload = append(payload, mask...)
	result, err := r.send(ctx, proto.CmdTagMask, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdTagMask, result)
}

// ClearTagMask clears one mask slot, or every slot when maskID is nil.
func (r *Reader) ClearTagMask(ctx context.Context, maskID *byte) error {
	const allMasks = 0xFF
	id := byte(allMasks)
	if maskID != nil {
		id = *maskID
	}
	result, err := r.send(ctx, proto.CmdTagMask, []byte{id, 0xFF}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdTagMask, result)
}

// GetTagMasks reads every configured mask slot, draining the accumulated
// record stream.
func (r *Reader) GetTagMasks(ctx context.Context) ([][]byte, error) {
	result, err := r.send(ctx, proto.CmdTagMask, []byte{0xFF, 0x00}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(proto.CmdTagMask, result); err != nil {
		return nil, err
	}
	return castRecords[[]byte](result.Records), nil
}

// SetFastID sets the persistent Monza FastID/FastTID mode.
func (r *Reader) SetFastID(ctx context.Context, mode proto.FastIDMode) error {
	result, err := r.send(ctx, proto.CmdSetFastID, []byte{byte(mode)}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetFastID, result)
}

// SetTemporaryFastID sets a non-persistent FastID mode, reverting to the
// stored value on the next reset.
func (r *Reader) SetTemporaryFastID(ctx context.Context, mode proto.FastIDMode) error {
	result, err := r.send(ctx, proto.CmdSetTemporaryFastID, []byte{byte(mode)}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetTemporaryFastID, result)
}

// GetFastID reads the current FastID mode.
func (r *Reader) GetFastID(ctx context.Context) (proto.FastIDMode, error) {
	result, err := r.send(ctx, proto.CmdGetFastID, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return 0, err
	}
	if err := protocolResult(proto.CmdGetFastID, result); err != nil {
		return 0, err
	}
	if len(result.Payload) < 1 {
		return 0, fmt.Errorf("reader: fast id reply empty")
	}
	return proto.FastIDMode(result.Payload[0]), nil
}

// castRecords narrows a []any accumulator drain to the concrete record
// type T a given command's parser produces.
func castRecords[T any](records []any) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
