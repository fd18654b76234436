// Package tag implements C5: pure payload-to-typed-result parsers for
// every command reply and inventory event shape the R2000 emits. Parsers
// take already-extracted data bytes (the dispatcher has already stripped
// any leading error-code byte) and return a typed result or an error;
// they never touch the wire, the pending-command list, or the
// accumulator queues.
package tag

// PCWord is the EPC C1G2 Protocol Control word.
type PCWord struct {
	// EPCLengthBytes is the EPC length encoded in the PC word, in bytes.
	// The vendor's bit layout (bits 15..11 = word count) already emerges
	// doubled from the extraction formula below, so this is directly
	// comparable to len(epc).
	EPCLengthBytes int
	UMI            bool
	XI             bool
	T              bool
}

// ParsePCWord decodes a 16-bit Protocol Control word
func ParsePCWord(w uint16) PCWord {
	return PCWord{
		EPCLengthBytes: int((w&0xF800)>>10) & 0x3E,
		UMI:            w&0x0200 != 0,
		XI:             w&0x0100 != 0,
		T:              w&0x0080 != 0,
	}
}
