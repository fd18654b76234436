// Package codec provides the byte-level primitives used to frame and
// validate R2000 wire packets: the ISO-1155 LRC used for frame integrity,
// the CRC-16/CCITT-XModem used for tag PC+EPC integrity, and the
// big-endian helpers the rest of the protocol is built from.
package codec

import "encoding/binary"

// LRC computes the ISO-1155 longitudinal redundancy check over data: the
// two's-complement negation of the unsigned sum of the bytes, truncated to
// 8 bits. The R2000 frame's LRC byte covers header..last-payload-byte.
func LRC(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return byte(256 - int(sum)%256)
}

// ValidateLRC reports whether lrc matches LRC(data).
func ValidateLRC(data []byte, lrc byte) bool {
	return LRC(data) == lrc
}

const crc16CCITTPoly = 0x1021

// CRC16CCITT computes the CRC-16/CCITT-XModem checksum over data: polynomial
// 0x1021, initial value 0x0000, no input/output reflection.
func CRC16CCITT(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ crc16CCITTPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// ValidateTagCRC reports whether the tag-side CRC-16 (as transmitted,
// already XORed with 0xFFFF by the reader) matches data's computed value.
func ValidateTagCRC(data []byte, wireCRC uint16) bool {
	return CRC16CCITT(data)^0xFFFF == wireCRC
}

// BE16 reads a big-endian uint16 from the first two bytes of b.
func BE16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// BE32 reads a big-endian uint32 from the first four bytes of b.
func BE32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// PutBE16 writes v as big-endian into the first two bytes of b.
func PutBE16(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

// PutBE32 writes v as big-endian into the first four bytes of b.
func PutBE32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

// BE24 reads a 3-byte big-endian unsigned integer from the first three
// bytes of b. Used for the custom-band startFreq field.
func BE24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// PutBE24 writes the low 24 bits of v as big-endian into the first three
// bytes of b. Used for the custom-band startFreq field.
func PutBE24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// Hex formats data as an uppercase, unseparated hex string, matching the
// vendor tooling's EPC/UID display convention.
func Hex(data []byte) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, len(data)*2)
	for i, b := range data {
		out[i*2] = digits[b>>4]
		out[i*2+1] = digits[b&0x0F]
	}
	return string(out)
}
