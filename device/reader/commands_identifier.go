package reader

import (
	"context"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/proto"
)

// SetIdentifier sets the reader's 12-byte user identifier.
func (r *Reader) SetIdentifier(ctx context.Context, id [12]byte) error {
	result, err := r.send(ctx, proto.CmdSetIdentifier, id[:], r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetIdentifier, result)
}

// GetIdentifier reads the reader's 12-byte user identifier.
func (r *Reader) GetIdentifier(ctx context.Context) ([12]byte, error) {
	var out [12]byte
	result, err := r.send(ctx, proto.CmdGetIdentifier, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return out, err
	}
	if err := protocolResult(proto.CmdGetIdentifier, result); err != nil {
		return out, err
	}
	if len(result.Payload) < 12 {
		return out, fmt.Errorf("reader: identifier reply too short: %d bytes", len(result.Payload))
	}
	copy(out[:], result.Payload)
	return out, nil
}
