package reader

import (
	"context"
	"time"

	"github.com/impinj-r2000/r2000driver/core/proto"
	"github.com/impinj-r2000/r2000driver/core/tag"
)

// inventoryTimeout computes the deadline for an inventory command:
// repeat·255ms + default timeout, plus powersave·64ms for
// session inventory.
func (r *Reader) inventoryTimeout(repeat byte, powersave byte) time.Duration {
	d := time.Duration(repeat)*255*time.Millisecond + r.cfg.DefaultTimeout
	d += time.Duration(powersave) * 64 * time.Millisecond
	return d
}

// StartBufferedInventory runs one buffered inventory round: tags are
// accumulated reader-side and must be retrieved separately with
// GetInventoryBuffer. The call suspends until the terminal summary reply.
func (r *Reader) StartBufferedInventory(ctx context.Context, repeat byte) (tag.InventorySummary, error) {
	result, err := r.send(ctx, proto.CmdInventory, []byte{repeat}, r.inventoryTimeout(repeat, 0), false)
	if err != nil {
		return tag.InventorySummary{}, err
	}
	if err := protocolResult(proto.CmdInventory, result); err != nil {
		return tag.InventorySummary{}, err
	}
	return tag.ParseInventorySummary(result.Payload)
}

// StartRealTimeInventory runs one real-time inventory round: tag
// sightings stream out through Events as they are read. The command's
// own terminal summary reply is always 9 bytes, which also satisfies
// the dispatcher's length>7 sighting-event rule,
// so it is always swallowed as a spurious sighting and never reaches
// the resolve gate; completion is the round's deadline elapsing
// (timeout-is-success), not a resolved reply.
func (r *Reader) StartRealTimeInventory(ctx context.Context, repeat byte) error {
	r.setPhaseMode(false)
	result, err := r.send(ctx, proto.CmdRealTimeInventory, []byte{repeat}, r.inventoryTimeout(repeat, 0), true)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdRealTimeInventory, result)
}

// StartSessionInventory runs one session/target-filtered inventory
// round. selectParam is optional (nil omits the byte); phase requests
// phase-angle reporting on subsequent sightings; powersave widens the
// round's deadline for low-duty-cycle operation. Like
// StartRealTimeInventory, completion is timeout-is-success; see that
// method's comment.
func (r *Reader) StartSessionInventory(
	ctx context.Context,
	repeat byte,
	session proto.Session,
	target proto.InventoriedFlag,
	selectParam *byte,
	phase bool,
	powersave byte,
) error {
	payload := []byte{repeat, byte(session), byte(target)}
	if selectParam != nil {
		payload = append(payload, *selectParam)
	}
	payload = append(payload, boolByte(phase))

	r.setPhaseMode(phase)
	result, err := r.send(ctx, proto.CmdCustomizedSessionTargetInventory, payload, r.inventoryTimeout(repeat, powersave), true)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdCustomizedSessionTargetInventory, result)
}

// StartFastSwitchAntennaInventory runs one fast-switch-antenna inventory
// round over the given antenna sequence (4 or 8 entries). session and
// target are optional overrides of the reader's configured defaults.
// Like StartRealTimeInventory, completion is timeout-is-success; see
// that method's comment.
func (r *Reader) StartFastSwitchAntennaInventory(
	ctx context.Context,
	repeat byte,
	restInterval byte,
	antennas []byte,
	session *proto.Session,
	target *proto.InventoriedFlag,
	phase bool,
) error {
	if len(antennas) != 4 && len(antennas) != 8 {
		return errInvalidAntennaSequence(len(antennas))
	}
	payload := []byte{repeat, restInterval}
	payload = append(payload, antennas...)
	if session != nil && target != nil {
		payload = append(payload, byte(*session), byte(*target))
	}
	payload = append(payload, boolByte(phase))

	r.setPhaseMode(phase)
	result, err := r.send(ctx, proto.CmdFastSwitchAntInventory, payload, r.inventoryTimeout(repeat, 0), true)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdFastSwitchAntInventory, result)
}

// GetInventoryBuffer drains the reader-side inventory buffer accumulated
// by StartBufferedInventory. reset additionally clears the buffer as
// part of the same round-trip.
func (r *Reader) GetInventoryBuffer(ctx context.Context, reset bool) ([]tag.BufferedRecord, error) {
	cmd := proto.CmdGetInventoryBuffer
	if reset {
		cmd = proto.CmdGetAndResetInventoryBuffer
	}
	result, err := r.send(ctx, cmd, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(cmd, result); err != nil {
		return nil, err
	}
	records := make([]tag.BufferedRecord, 0, len(result.Records))
	for _, rec := range result.Records {
		if br, ok := rec.(tag.BufferedRecord); ok {
			records = append(records, br)
		}
	}
	return records, nil
}

// GetInventoryBufferTagCount reads the number of unique tags currently
// held in the inventory buffer without draining it.
func (r *Reader) GetInventoryBufferTagCount(ctx context.Context) (uint16, error) {
	result, err := r.send(ctx, proto.CmdGetInventoryBufferTagCount, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return 0, err
	}
	if err := protocolResult(proto.CmdGetInventoryBufferTagCount, result); err != nil {
		return 0, err
	}
	if len(result.Payload) < 2 {
		return 0, errShortReply("inventory buffer tag count", len(result.Payload))
	}
	return uint16(result.Payload[0])<<8 | uint16(result.Payload[1]), nil
}

// ResetInventoryBuffer clears the reader-side inventory buffer.
func (r *Reader) ResetInventoryBuffer(ctx context.Context) error {
	result, err := r.send(ctx, proto.CmdResetInventoryBuffer, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdResetInventoryBuffer, result)
}
