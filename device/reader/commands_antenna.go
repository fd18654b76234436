package reader

import (
	"context"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/proto"
	"github.com/impinj-r2000/r2000driver/core/tag"
)

// SetWorkingAntenna selects the active antenna port.
func (r *Reader) SetWorkingAntenna(ctx context.Context, antenna proto.Antenna) error {
	result, err := r.send(ctx, proto.CmdSetWorkingAntenna, []byte{byte(antenna)}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetWorkingAntenna, result)
}

// GetWorkingAntenna reads the active antenna port.
func (r *Reader) GetWorkingAntenna(ctx context.Context) (proto.Antenna, error) {
	result, err := r.send(ctx, proto.CmdGetWorkingAntenna, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return 0, err
	}
	if err := protocolResult(proto.CmdGetWorkingAntenna, result); err != nil {
		return 0, err
	}
	if len(result.Payload) < 1 {
		return 0, fmt.Errorf("reader: working antenna reply empty")
	}
	return proto.Antenna(result.Payload[0]), nil
}

// SetOutputPower sets output power. A single value broadcasts to every
// port; 4 or 8 values set per-port power.
func (r *Reader) SetOutputPower(ctx context.Context, dBm ...byte) error {
	switch len(dBm) {
	case 1, 4, 8:
	default:
		return fmt.Errorf("reader: output power must be 1, 4, or 8 values, got %d", len(dBm))
	}
	result, err := r.send(ctx, proto.CmdSetOutputPower, dBm, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetOutputPower, result)
}

// GetOutputPower reads the 4-port output power table.
func (r *Reader) GetOutputPower(ctx context.Context) (tag.OutputPowerReply, error) {
	result, err := r.send(ctx, proto.CmdGetOutputPower, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return tag.OutputPowerReply{}, err
	}
	if err := protocolResult(proto.CmdGetOutputPower, result); err != nil {
		return tag.OutputPowerReply{}, err
	}
	return tag.ParseOutputPower(result.Payload)
}

// GetOutputPower8P reads the 8-port output power table.
func (r *Reader) GetOutputPower8P(ctx context.Context) (tag.OutputPowerReply, error) {
	result, err := r.send(ctx, proto.CmdGetOutputPower8P, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return tag.OutputPowerReply{}, err
	}
	if err := protocolResult(proto.CmdGetOutputPower8P, result); err != nil {
		return tag.OutputPowerReply{}, err
	}
	return tag.ParseOutputPower8P(result.Payload)
}

// SetTemporaryOutputPower sets a non-persistent output power value,
// reverting to the stored value on the next reset.
func (r *Reader) SetTemporaryOutputPower(ctx context.Context, dBm byte) error {
	result, err := r.send(ctx, proto.CmdSetTemporaryOutputPower, []byte{dBm}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetTemporaryOutputPower, result)
}

// SetAntennaDetectorSensitivity sets the antenna-missing detector's
// sensitivity threshold.
func (r *Reader) SetAntennaDetectorSensitivity(ctx context.Context, value byte) error {
	result, err := r.send(ctx, proto.CmdSetAntennaDetector, []byte{value}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetAntennaDetector, result)
}

// GetAntennaDetectorSensitivity reads the antenna-missing detector's
// sensitivity threshold.
func (r *Reader) GetAntennaDetectorSensitivity(ctx context.Context) (byte, error) {
	result, err := r.send(ctx, proto.CmdGetAntennaDetector, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return 0, err
	}
	if err := protocolResult(proto.CmdGetAntennaDetector, result); err != nil {
		return 0, err
	}
	if len(result.Payload) < 1 {
		return 0, fmt.Errorf("reader: antenna detector sensitivity reply empty")
	}
	return result.Payload[0], nil
}

// GetReturnLoss reads the RF port return loss at the given frequency
// table index. GET_RF_PORT_RETURN_LOSS is one of the three PolicySometimes
// special cases: the reader only reports FAIL_GET_RF_PORT_RETURN_LOSS as
// an error, never SUCCESS.
func (r *Reader) GetReturnLoss(ctx context.Context, freqIdx byte) (byte, error) {
	result, err := r.send(ctx, proto.CmdGetRFPortReturnLoss, []byte{freqIdx}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return 0, err
	}
	if err := protocolResult(proto.CmdGetRFPortReturnLoss, result); err != nil {
		return 0, err
	}
	if len(result.Payload) < 1 {
		return 0, fmt.Errorf("reader: return loss reply empty")
	}
	return result.Payload[0], nil
}

// GetAntennaSwitchingSequence reads the configured antenna switching
// sequence for fast-switch-antenna inventory.
func (r *Reader) GetAntennaSwitchingSequence(ctx context.Context) ([]byte, error) {
	result, err := r.send(ctx, proto.CmdGetAntennaSwitchingSequence, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return nil, err
	}
	if err := protocolResult(proto.CmdGetAntennaSwitchingSequence, result); err != nil {
		return nil, err
	}
	return result.Payload, nil
}
