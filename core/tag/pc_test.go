package tag

import "testing"

func TestParsePCWordEPCLength(t *testing.T) {
	tests := []struct {
		name      string
		w         uint16
		wantBytes int
	}{
		{"12 bytes (6 words)", 0x3000, 12},
		{"zero length", 0x0000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePCWord(tt.w)
			if got.EPCLengthBytes != tt.wantBytes {
				t.Errorf("EPCLengthBytes = %d, want %d", got.EPCLengthBytes, tt.wantBytes)
			}
		})
	}
}
