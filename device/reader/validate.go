package reader

import "fmt"

// validateEPCMatch enforces that EPC match data is 1..62 bytes.
func validateEPCMatch(epc []byte) error {
	if len(epc) < 1 || len(epc) > 62 {
		return fmt.Errorf("reader: epc match data must be 1..62 bytes, got %d", len(epc))
	}
	return nil
}

// padEven zero-pads data to an even length, since WriteTags must send an
// even byte count before the word count is computed.
func padEven(data []byte) []byte {
	if len(data)%2 == 0 {
		return data
	}
	out := make([]byte, len(data)+1)
	copy(out, data)
	return out
}
