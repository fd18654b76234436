package reader

import (
	"context"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/proto"
)

// Reset reboots the reader. A timeout here means success: the reader
// never replies to RESET.
func (r *Reader) Reset(ctx context.Context) error {
	result, err := r.send(ctx, proto.CmdReset, nil, r.cfg.DefaultTimeout, true)
	if err != nil {
		return err
	}
	if result.Success {
		r.frameIn.Reset()
		r.queues.ClearAddr(r.currentAddress())
		r.setPhaseMode(false)
	}
	return protocolResult(proto.CmdReset, result)
}

// SetBaudRate changes the reader's UART baud rate and, on success,
// reconfigures the underlying transport to match and resets host-side
// session state.
func (r *Reader) SetBaudRate(ctx context.Context, bps int) error {
	code, ok := proto.BaudCode(bps)
	if !ok {
		return fmt.Errorf("reader: unsupported baud rate: %d", bps)
	}
	result, err := r.send(ctx, proto.CmdSetBaudRate, []byte{code}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	if err := protocolResult(proto.CmdSetBaudRate, result); err != nil {
		return err
	}
	if err := r.sink.SetBaudRate(bps); err != nil {
		return fmt.Errorf("reader: apply new baud rate to transport: %w", err)
	}
	r.queues.ClearAddr(r.currentAddress())
	r.setPhaseMode(false)
	return nil
}

// SetAddress updates the reader's RS-485 address, then retargets all
// subsequent commands at the new address on success.
func (r *Reader) SetAddress(ctx context.Context, addr byte) error {
	result, err := r.send(ctx, proto.CmdSetAddress, []byte{addr}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	if err := protocolResult(proto.CmdSetAddress, result); err != nil {
		return err
	}
	r.mu.Lock()
	r.address = addr
	r.mu.Unlock()
	return nil
}

// GetFirmwareVersion reads the reader's firmware version string.
func (r *Reader) GetFirmwareVersion(ctx context.Context) ([]byte, error) {
	result, err := r.send(ctx, proto.CmdGetFirmwareVersion, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(proto.CmdGetFirmwareVersion, result); err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// GetModuleFunction reads the reader's boot-time operating mode.
func (r *Reader) GetModuleFunction(ctx context.Context) (proto.ModuleFunction, error) {
	result, err := r.send(ctx, proto.CmdGetModuleFunction, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return 0, err
	}
	if err := protocolResult(proto.CmdGetModuleFunction, result); err != nil {
		return 0, err
	}
	if len(result.Payload) < 1 {
		return 0, fmt.Errorf("reader: module function reply empty")
	}
	return proto.ModuleFunction(result.Payload[0]), nil
}

// SetModuleFunction changes the reader's boot-time operating mode. On
// success the reader's host-side session state is reset, matching
// SetBaudRate's behavior.
func (r *Reader) SetModuleFunction(ctx context.Context, fn proto.ModuleFunction) error {
	result, err := r.send(ctx, proto.CmdSetModuleFunction, []byte{byte(fn)}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	if err := protocolResult(proto.CmdSetModuleFunction, result); err != nil {
		return err
	}
	r.queues.ClearAddr(r.currentAddress())
	r.setPhaseMode(false)
	return nil
}
