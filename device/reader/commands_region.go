package reader

import (
	"context"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/codec"
	"github.com/impinj-r2000/r2000driver/core/proto"
	"github.com/impinj-r2000/r2000driver/core/tag"
)

// SetRegionFrequencyBand sets the regulatory frequency region and its
// index range, falling back to the region's default range when startIdx
// or endIdx is nil. RegionCustom has no usable default and
// requires both.
func (r *Reader) SetRegionFrequencyBand(ctx context.Context, region proto.FrequencyRegion, startIdx, endIdx *byte) error {
	start, end := byte(0), byte(0)
	if startIdx != nil && endIdx != nil {
		start, end = *startIdx, *endIdx
	} else {
		defStart, defEnd, ok := proto.DefaultFrequencyIndexRange(region)
		if !ok {
			return fmt.Errorf("reader: region %v has no default index range; startIdx/endIdx are required", region)
		}
		start, end = defStart, defEnd
	}
	result, err := r.send(ctx, proto.CmdSetFrequencyRegion, []byte{byte(region), start, end}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetFrequencyRegion, result)
}

// SetCustomFrequencyBand configures RegionCustom's frequency table:
// spacingDiv10 is the channel spacing in units of 10 kHz, quantity is the
// channel count, and startFreqKHz is the first channel's frequency.
func (r *Reader) SetCustomFrequencyBand(ctx context.Context, startFreqKHz uint32, spacingDiv10 byte, quantity byte) error {
	payload := []byte{byte(proto.RegionCustom), spacingDiv10, quantity, 0, 0, 0}
	codec.PutBE24(payload[3:], startFreqKHz)
	result, err := r.send(ctx, proto.CmdSetFrequencyRegion, payload, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetFrequencyRegion, result)
}

// GetFrequencyBand reads the reader's current frequency region/band.
func (r *Reader) GetFrequencyBand(ctx context.Context) (tag.FrequencyRegionReply, error) {
	result, err := r.send(ctx, proto.CmdGetFrequencyRegion, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return tag.FrequencyRegionReply{}, err
	}
	if err := protocolResult(proto.CmdGetFrequencyRegion, result); err != nil {
		return tag.FrequencyRegionReply{}, err
	}
	return tag.ParseFrequencyRegionReply(result.Payload)
}

// SetRFLinkProfile sets the vendor RF link profile.
func (r *Reader) SetRFLinkProfile(ctx context.Context, profile proto.RFLinkProfile) error {
	result, err := r.send(ctx, proto.CmdSetRFLinkProfile, []byte{byte(profile)}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetRFLinkProfile, result)
}

// GetRFLinkProfile reads the vendor RF link profile. GET_RF_LINK_PROFILE
// is one of the three PolicySometimes special cases: a byte outside the
// four defined profiles is an error code, not data.
func (r *Reader) GetRFLinkProfile(ctx context.Context) (proto.RFLinkProfile, error) {
	result, err := r.send(ctx, proto.CmdGetRFLinkProfile, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return 0, err
	}
	if err := protocolResult(proto.CmdGetRFLinkProfile, result); err != nil {
		return 0, err
	}
	if len(result.Payload) < 1 {
		return 0, fmt.Errorf("reader: rf link profile reply empty")
	}
	return proto.RFLinkProfile(result.Payload[0]), nil
}

// SetDenseReaderMode toggles dense-reader (channelized LBT) mode.
func (r *Reader) SetDenseReaderMode(ctx context.Context, on bool) error {
	result, err := r.send(ctx, proto.CmdSetDenseReaderMode, []byte{boolByte(on)}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetDenseReaderMode, result)
}

// GetDenseReaderMode reads dense-reader mode.
func (r *Reader) GetDenseReaderMode(ctx context.Context) (bool, error) {
	result, err := r.send(ctx, proto.CmdGetDenseReaderMode, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return false, err
	}
	if err := protocolResult(proto.CmdGetDenseReaderMode, result); err != nil {
		return false, err
	}
	if len(result.Payload) < 1 {
		return false, fmt.Errorf("reader: dense reader mode reply empty")
	}
	return result.Payload[0] != 0, nil
}

// SetBeeperMode sets the reader's audible feedback mode.
func (r *Reader) SetBeeperMode(ctx context.Context, mode proto.BeeperMode) error {
	result, err := r.send(ctx, proto.CmdSetBeeperMode, []byte{byte(mode)}, r.cfg.DefaultTimeout, false)
	if err != nil {
		return err
	}
	return protocolResult(proto.CmdSetBeeperMode, result)
}

// GetTemperature reads the reader's internal temperature in degrees C.
func (r *Reader) GetTemperature(ctx context.Context) (int, error) {
	result, err := r.send(ctx, proto.CmdGetReaderTemperature, nil, r.cfg.DefaultTimeout, false)
	if err != nil {
		return 0, err
	}
	if err := protocolResult(proto.CmdGetReaderTemperature, result); err != nil {
		return 0, err
	}
	return tag.ParseReaderTemperature(result.Payload)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
