package proto

import "testing"

func TestDefaultFrequencyIndexRange(t *testing.T) {
	tests := []struct {
		name      string
		region    FrequencyRegion
		wantStart byte
		wantEnd   byte
		wantOK    bool
	}{
		{"fcc", RegionFCC, 7, 59, true},
		{"etsi", RegionETSI, 0, 6, true},
		{"chn", RegionCHN, 43, 53, true},
		{"custom has no default range", RegionCustom, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := DefaultFrequencyIndexRange(tt.region)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (start != tt.wantStart || end != tt.wantEnd) {
				t.Errorf("range = [%d,%d], want [%d,%d]", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestIsValidRFLinkProfile(t *testing.T) {
	for _, code := range []byte{0xD0, 0xD1, 0xD2, 0xD3} {
		if !IsValidRFLinkProfile(code) {
			t.Errorf("0x%02X should be a valid profile", code)
		}
	}
	if IsValidRFLinkProfile(0xD4) {
		t.Error("0xD4 should not be a valid profile")
	}
}

func TestBaudCodeRoundTrip(t *testing.T) {
	tests := []struct {
		bps  int
		code byte
	}{
		{38400, 3},
		{115200, 4},
	}
	for _, tt := range tests {
		code, ok := BaudCode(tt.bps)
		if !ok || code != tt.code {
			t.Errorf("BaudCode(%d) = (%d, %v), want (%d, true)", tt.bps, code, ok, tt.code)
		}
		bps, ok := BaudRate(tt.code)
		if !ok || bps != tt.bps {
			t.Errorf("BaudRate(%d) = (%d, %v), want (%d, true)", tt.code, bps, ok, tt.bps)
		}
	}
	if _, ok := BaudCode(9600); ok {
		t.Error("9600 should not have a baud code")
	}
}
