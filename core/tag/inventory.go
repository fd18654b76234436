package tag

import (
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/codec"
)

// rssiOffsetDBm is added to the 7-bit raw RSSI field.
const rssiOffsetDBm = -129

// InventoryTag is one EPC C1G2 tag sighting.
type InventoryTag struct {
	Antenna     int // 1..8
	Frequency   int // 0..59, index into proto.FrequencyTable
	PC          uint16
	EPC         []byte
	RSSIDBm     int
	PhaseAngle  *uint16 // set only when phase mode is on
	PCMismatch  bool    // true if PCWord.EPCLengthBytes != len(EPC); tag is still reported
}

// ParseInventorySighting decodes a real-time / fast-switch-antenna /
// session-target inventory tag event phaseOn selects
// whether the trailing two bytes are a phase angle, per the engine's
// current phaseMode.
func ParseInventorySighting(data []byte, phaseOn bool) (InventoryTag, error) {
	phaseOffset := 0
	if phaseOn {
		phaseOffset = 2
	}
	// Minimum: pack(1) + pc(2) + rssi(1) [+ phase(2)].
	minLen := 4 + phaseOffset
	if len(data) < minLen {
		return InventoryTag{}, fmt.Errorf("tag: inventory sighting too short: %d bytes", len(data))
	}

	packByte := data[0]
	antennaLow := int(packByte & 0x03)
	frequency := int(packByte&0xFC) >> 2
	pc := codec.BE16(data[1:3])

	rssiIdx := len(data) - (1 + phaseOffset)
	epc := make([]byte, rssiIdx-3)
	copy(epc, data[3:rssiIdx])

	rssiByte := data[rssiIdx]
	antenna := antennaLow + 4*int((rssiByte>>7)&0x01)
	rssi := int(rssiByte&0x7F) + rssiOffsetDBm

	tag := InventoryTag{
		Antenna:   antenna + 1, // wire value is 0-based;  antenna range is 1..8
		Frequency: frequency,
		PC:        pc,
		EPC:       epc,
		RSSIDBm:   rssi,
	}

	if phaseOn {
		phase := codec.BE16(data[len(data)-2:])
		tag.PhaseAngle = &phase
	}

	pcWord := ParsePCWord(pc)
	if pcWord.EPCLengthBytes != len(epc) {
		tag.PCMismatch = true
	}

	return tag, nil
}

// Tag6B is one ISO 18000-6B tag sighting.
type Tag6B struct {
	Antenna int
	UID     [8]byte
}

// ParseISO6BSighting decodes an ISO18000_6B_INVENTORY tag event, whose
// payload length is always 9 bytes: antenna(1) +
// uid(8).
func ParseISO6BSighting(data []byte) (Tag6B, error) {
	if len(data) != 9 {
		return Tag6B{}, fmt.Errorf("tag: iso6b sighting must be 9 bytes, got %d", len(data))
	}
	var t Tag6B
	t.Antenna = int(data[0])
	copy(t.UID[:], data[1:9])
	return t, nil
}
