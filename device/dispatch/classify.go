package dispatch

import "github.com/impinj-r2000/r2000driver/core/proto"

// classify applies a command's error-return policy to a
// decoded payload, splitting it into an optional error code and the
// remaining data bytes. The three PolicySometimes special cases and
// isSuccess's BUFFER_IS_EMPTY rule are the only places this package
// branches on command identity outside the event and accumulator gates.
func classify(info proto.CommandInfo, payload []byte) (errCode *proto.ErrorCode, data []byte) {
	switch info.Policy {
	case proto.PolicyNo:
		return nil, payload
	case proto.PolicyYes:
		if len(payload) == 0 {
			return nil, payload
		}
		ec := proto.ErrorCode(payload[0])
		return &ec, payload[1:]
	case proto.PolicyIfSingleByteData:
		if len(payload) == 1 {
			ec := proto.ErrorCode(payload[0])
			return &ec, nil
		}
		return nil, payload
	case proto.PolicySometimes:
		return classifySometimes(info.Code, payload)
	default:
		return nil, payload
	}
}

// classifySometimes implements the three commands whose error-vs-data
// byte distinction depends on the payload's value, not just its shape:
// GET_RF_LINK_PROFILE, GET_RF_PORT_RETURN_LOSS, and TAG_MASK.
func classifySometimes(cmd proto.Command, payload []byte) (*proto.ErrorCode, []byte) {
	switch cmd {
	case proto.CmdGetRFLinkProfile:
		if len(payload) >= 1 && !proto.IsValidRFLinkProfile(payload[0]) {
			ec := proto.ErrorCode(payload[0])
			return &ec, payload[1:]
		}
		return nil, payload
	case proto.CmdGetRFPortReturnLoss:
		if len(payload) >= 1 && payload[0] == byte(proto.ErrFailGetRFReturnLoss) {
			ec := proto.ErrorCode(payload[0])
			return &ec, payload[1:]
		}
		return nil, payload
	case proto.CmdTagMask:
		if len(payload) == 1 && payload[0] != 0 {
			ec := proto.ErrorCode(payload[0])
			return &ec, nil
		}
		return nil, payload
	default:
		return nil, payload
	}
}

// isSuccess reports overall success: no error code, an explicit SUCCESS
// code, or BUFFER_IS_EMPTY specifically on GET_AND_RESET_INVENTORY_BUFFER
// (see DESIGN.md on why that equivalence is scoped to this one command).
func isSuccess(cmd proto.Command, errCode *proto.ErrorCode) bool {
	if errCode == nil {
		return true
	}
	if *errCode == proto.ErrSuccess {
		return true
	}
	if *errCode == proto.ErrBufferIsEmpty && cmd == proto.CmdGetAndResetInventoryBuffer {
		return true
	}
	return false
}
