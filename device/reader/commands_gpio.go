package reader

import (
	"context"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/proto"
)

// GetGPIOLevel reads an input GPIO pin's level. The R2000 wires only
// pins 1 and 2 as inputs.
func (r *Reader) GetGPIOLevel(ctx context.Context, pin int) (bool, error) {
	if pin != 1 && pin != 2 {
		return false, fmt.Errorf("reader: gpio input pin must be 1 or 2, got %d", pin)
	}
	result, err := r.send(ctx, proto.CmdGetGPIO, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return false, err
	}
	if err := protocolResult(proto.CmdGetGPIO, result); err != nil {
		return false, err
	}
	if len(result.Payload) < pin {
		return false, fmt.Errorf("reader: gpio level reply too short for pin %d", pin)
	}
	return result.Payload[pin-1] != 0, nil
}

// SetGPIOLevel sets an output GPIO pin's level. The R2000 wires only
// pins 3 and 4 as outputs.
func (r *Reader) SetGPIOLevel(ctx context.Context, pin int, high bool) error {
	if pin != 3 && pin != 4 {
		return fmt.Errorf("reader: gpio output pin must be 3 or 4, got %d", pin)
	}
	result, err := r.send(ctx, proto.CmdSetGPIO, []byte{byte(pin), boolByte(high)}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetGPIO, result)
}
