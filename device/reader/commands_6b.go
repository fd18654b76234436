package reader

import (
	"context"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/proto"
)

// Start6BRealTimeInventory runs one ISO 18000-6B inventory round; tag
// sightings stream out through Events6B as they are read.
func (r *Reader) Start6BRealTimeInventory(ctx context.Context, repeat byte) error {
	result, err := r.send(ctx, proto.CmdISO6BInventory, []byte{repeat}, r.inventoryTimeout(repeat, 0), false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdISO6BInventory, result)
}

// Read6BTag reads length bytes at addr from the ISO 18000-6B tag
// identified by uid.
func (r *Reader) Read6BTag(ctx context.Context, uid [8]byte, addr byte, length byte) ([]byte, error) {
	payload := append(append([]byte{}, uid[:]...), addr, length)
	result, err := r.send(ctx, proto.CmdISO6BRead, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(proto.CmdISO6BRead, result); err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// Write6BTag writes data (length bytes) to addr on the ISO 18000-6B tag
// identified by uid.
func (r *Reader) Write6BTag(ctx context.Context, uid [8]byte, addr byte, length byte, data []byte) error {
	if len(data) != int(length) {
		return fmt.Errorf("reader: 6b write data length %d does not match length argument %d", len(data), length)
	}
	payload := append(append([]byte{}, uid[:]...), addr, length)
	payload = append(payload, data...)
	result, err := r.send(ctx, proto.CmdISO6BWrite, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdISO6BWrite, result)
}

// Lock6BTagByte locks the byte at addr on the ISO 18000-6B tag identified
// by uid.
func (r *Reader) Lock6BTagByte(ctx context.Context, uid [8]byte, addr byte) error {
	payload := append(append([]byte{}, uid[:]...), addr)
	result, err := r.send(ctx, proto.CmdISO6BLock, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdISO6BLock, result)
}

// QueryLock6BTagByte reports whether the byte at addr is locked on the
// ISO 18000-6B tag identified by uid.
func (r *Reader) QueryLock6BTagByte(ctx context.Context, uid [8]byte, addr byte) (bool, error) {
	payload := append(append([]byte{}, uid[:]...), addr)
	result, err := r.send(ctx, proto.CmdISO6BQueryLock, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return false, err
	}
	if err := protocolResult(proto.CmdISO6BQueryLock, result); err != nil {
		return false, err
	}
	if len(result.Payload) < 1 {
		return false, fmt.Errorf("reader: 6b query lock reply empty")
	}
	return result.Payload[0] != 0, nil
}
