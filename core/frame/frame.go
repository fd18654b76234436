// Package frame turns an arbitrary byte stream from the R2000's
// RS-485/UART link into a sequence of well-formed packets. It knows
// nothing about command semantics — that is core/proto and
// device/dispatch's job — only about locating packet boundaries and
// validating frame integrity.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/codec"
)

const (
	// HeaderByte is the fixed first byte of every R2000 frame.
	HeaderByte = 0xA0

	// MinLength is the minimum valid value of the length byte: address(1)
	// + command(1) + payload(1) + lrc(1). A frame with zero payload bytes
	// has length 3: Encode produces one for payload-less commands such as
	// RESET, but Decode rejects it.
	MinLength = 4

	// minFrameSize is the minimum total wire size of a frame: header(1) +
	// length(1) + address(1) + command(1) + payload(1+) + lrc(1).
	minFrameSize = 6
)

var (
	// ErrTooShort means the buffer does not yet contain a complete frame;
	// the caller should wait for more bytes.
	ErrTooShort = errors.New("frame: buffer too short")
	// ErrBadHeader means the first byte is not HeaderByte.
	ErrBadHeader = errors.New("frame: bad header byte")
	// ErrBadLength means the length byte is below MinLength.
	ErrBadLength = errors.New("frame: length byte below minimum")
	// ErrBadLRC means the frame's LRC does not match its computed value.
	ErrBadLRC = errors.New("frame: lrc mismatch")
)

// Frame is one decoded R2000 packet:
//
//	header(1) | length(1) | address(1) | command(1) | payload(0..N) | lrc(1)
type Frame struct {
	Length  byte
	Address byte
	Command byte
	Payload []byte
	LRC     byte

	// Raw is the complete wire encoding of the frame, including header
	// and lrc, useful for tracing/debugging.
	Raw []byte
}

// TotalLen returns the number of bytes this frame occupies on the wire:
// length + 2 (the header and length bytes themselves).
func (f *Frame) TotalLen() int {
	return int(f.Length) + 2
}

// Encode builds the wire bytes for a frame with the given address, command,
// and payload, appending a freshly computed LRC. This is the inverse of
// Decode and is what device/reader uses to build outbound packets.
func Encode(address byte, command byte, payload []byte) []byte {
	length := byte(len(payload) + 3)
	out := make([]byte, 0, int(length)+2)
	out = append(out, HeaderByte, length, address, command)
	out = append(out, payload...)
	out = append(out, codec.LRC(out))
	return out
}

// Decode attempts to decode one frame from the start of data. It returns
// the decoded frame, the bytes of data after that frame, and an error.
// ErrTooShort means data may become decodable once more bytes arrive and
// the caller should not discard it; any other error means the leading
// byte(s) are not a valid frame and the caller should resynchronize
// (typically by dropping the header byte and retrying).
func Decode(data []byte) (*Frame, []byte, error) {
	if len(data) < 2 {
		return nil, data, ErrTooShort
	}
	if data[0] != HeaderByte {
		return nil, data, ErrBadHeader
	}

	length := data[1]
	if length < MinLength {
		return nil, data, fmt.Errorf("%w: %d", ErrBadLength, length)
	}

	total := int(length) + 2
	if total < minFrameSize {
		return nil, data, fmt.Errorf("%w: %d", ErrBadLength, length)
	}
	if len(data) < total {
		return nil, data, ErrTooShort
	}

	raw := data[:total]
	gotLRC := raw[total-1]
	if !codec.ValidateLRC(raw[:total-1], gotLRC) {
		return nil, data, fmt.Errorf("%w: want 0x%02X got 0x%02X", ErrBadLRC, codec.LRC(raw[:total-1]), gotLRC)
	}

	payload := make([]byte, total-5)
	copy(payload, raw[4:total-1])

	f := &Frame{
		Length:  length,
		Address: raw[2],
		Command: raw[3],
		Payload: payload,
		LRC:     gotLRC,
		Raw:     append([]byte(nil), raw...),
	}
	return f, data[total:], nil
}

// RecordCountHeader reads the big-endian 2-byte count field carried as the
// first two bytes of a multi-record accumulator reply.
func RecordCountHeader(record []byte) (uint16, error) {
	if len(record) < 2 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint16(record[:2]), nil
}
