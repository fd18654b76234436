package tag

import (
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/codec"
	"github.com/impinj-r2000/r2000driver/core/proto"
)

// FrequencyRegionReply is the decoded GET_FREQUENCY_REGION payload. For
// RegionCustom, StartFreqIdx/EndFreqIdx are unused and the Custom fields
// are populated instead.
type FrequencyRegionReply struct {
	Region       proto.FrequencyRegion
	StartFreqIdx byte
	EndFreqIdx   byte

	// Custom fields, populated only when Region == proto.RegionCustom.
	CustomFreqSpaceKHz  int
	CustomFreqQuantity  byte
	CustomStartFreqKHz  uint32
}

// ParseFrequencyRegionReply decodes a GET_FREQUENCY_REGION reply.
func ParseFrequencyRegionReply(data []byte) (FrequencyRegionReply, error) {
	if len(data) < 1 {
		return FrequencyRegionReply{}, fmt.Errorf("tag: frequency region reply empty")
	}
	region := proto.FrequencyRegion(data[0])
	if region == proto.RegionCustom {
		if len(data) < 6 {
			return FrequencyRegionReply{}, fmt.Errorf("tag: custom frequency region reply too short: %d bytes", len(data))
		}
		return FrequencyRegionReply{
			Region:             region,
			CustomFreqSpaceKHz: int(data[1]) * 10,
			CustomFreqQuantity: data[2],
			CustomStartFreqKHz: codec.BE24(data[3:6]),
		}, nil
	}
	if len(data) < 3 {
		return FrequencyRegionReply{}, fmt.Errorf("tag: frequency region reply too short: %d bytes", len(data))
	}
	return FrequencyRegionReply{
		Region:       region,
		StartFreqIdx: data[1],
		EndFreqIdx:   data[2],
	}, nil
}

// ParseReaderTemperature decodes GET_READER_TEMPERATURE: data[0] is sign
// (0 = negative, nonzero = positive), data[1] is magnitude in degrees C.
func ParseReaderTemperature(data []byte) (int, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("tag: temperature reply too short: %d bytes", len(data))
	}
	magnitude := int(data[1])
	if data[0] == 0 {
		return -magnitude, nil
	}
	return magnitude, nil
}

// OutputPowerReply is the decoded GET_OUTPUT_POWER / GET_OUTPUT_POWER_8P
// payload: one power value (dBm) per antenna port.
type OutputPowerReply struct {
	Ports []byte
}

// ParseOutputPower decodes GET_OUTPUT_POWER. If data is a single byte, it
// is broadcast to all four ports; otherwise each byte is a per-port value.
func ParseOutputPower(data []byte) (OutputPowerReply, error) {
	return parseOutputPower(data, 4)
}

// ParseOutputPower8P decodes GET_OUTPUT_POWER_8P, broadcasting a single
// byte to all eight ports.
func ParseOutputPower8P(data []byte) (OutputPowerReply, error) {
	return parseOutputPower(data, 8)
}

func parseOutputPower(data []byte, ports int) (OutputPowerReply, error) {
	if len(data) == 0 {
		return OutputPowerReply{}, fmt.Errorf("tag: output power reply empty")
	}
	if len(data) == 1 {
		out := make([]byte, ports)
		for i := range out {
			out[i] = data[0]
		}
		return OutputPowerReply{Ports: out}, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return OutputPowerReply{Ports: out}, nil
}
