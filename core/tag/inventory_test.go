package tag

import (
	"bytes"
	"testing"
)

func TestParseInventorySightingNoPhase(t *testing.T) {
	// pack=0x04 (antenna low bits 0, freq 1), pc=0x3000, epc=E2 00 68, rssi=0x15.
	data := []byte{0x04, 0x30, 0x00, 0xE2, 0x00, 0x68, 0x15}

	got, err := ParseInventorySighting(data, false)
	if err != nil {
		t.Fatalf("ParseInventorySighting: %v", err)
	}
	if got.Antenna != 1 {
		t.Errorf("Antenna = %d, want 1", got.Antenna)
	}
	if got.Frequency != 1 {
		t.Errorf("Frequency = %d, want 1", got.Frequency)
	}
	if got.PC != 0x3000 {
		t.Errorf("PC = 0x%04X, want 0x3000", got.PC)
	}
	if !bytes.Equal(got.EPC, []byte{0xE2, 0x00, 0x68}) {
		t.Errorf("EPC = % X, want E2 00 68", got.EPC)
	}
	if got.RSSIDBm != -108 {
		t.Errorf("RSSIDBm = %d, want -108", got.RSSIDBm)
	}
	if got.PhaseAngle != nil {
		t.Error("PhaseAngle should be nil when phase mode is off")
	}
}

func TestParseInventorySightingWithPhase(t *testing.T) {
	data := []byte{0x04, 0x30, 0x00, 0xE2, 0x00, 0x68, 0x15, 0x01, 0x02}
	got, err := ParseInventorySighting(data, true)
	if err != nil {
		t.Fatalf("ParseInventorySighting: %v", err)
	}
	if got.PhaseAngle == nil {
		t.Fatal("PhaseAngle should be set when phase mode is on")
	}
	if *got.PhaseAngle != 0x0102 {
		t.Errorf("PhaseAngle = 0x%04X, want 0x0102", *got.PhaseAngle)
	}
	if !bytes.Equal(got.EPC, []byte{0xE2, 0x00, 0x68}) {
		t.Errorf("EPC = % X, want E2 00 68", got.EPC)
	}
}

func TestParseInventorySightingHighAntennaBit(t *testing.T) {
	// rssi byte 0x95 has bit7 set -> antenna offset +4.
	data := []byte{0x01, 0x30, 0x00, 0xE2, 0x95}
	got, err := ParseInventorySighting(data, false)
	if err != nil {
		t.Fatalf("ParseInventorySighting: %v", err)
	}
	if got.Antenna != 6 { // antennaLow=1 + 4 (bit 7) = 5 zero-based, +1 for 1-based -> 6
		t.Errorf("Antenna = %d, want 6", got.Antenna)
	}
}

func TestParseInventorySightingTooShort(t *testing.T) {
	if _, err := ParseInventorySighting([]byte{0x01, 0x02}, false); err == nil {
		t.Error("expected an error for a too-short payload")
	}
}

func TestParseISO6BSighting(t *testing.T) {
	data := []byte{0x01, 1, 2, 3, 4, 5, 6, 7, 8}
	got, err := ParseISO6BSighting(data)
	if err != nil {
		t.Fatalf("ParseISO6BSighting: %v", err)
	}
	if got.Antenna != 1 {
		t.Errorf("Antenna = %d, want 1", got.Antenna)
	}
	want := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	if got.UID != want {
		t.Errorf("UID = % X, want % X", got.UID, want)
	}
}

func TestParseISO6BSightingWrongLength(t *testing.T) {
	if _, err := ParseISO6BSighting([]byte{0x01, 0x02}); err == nil {
		t.Error("expected an error for wrong-length payload")
	}
}
