package frame

import "bytes"

// Reader assembles Frames from a byte stream delivered in arbitrary-sized
// chunks, the same role transport/serial.Transport.processFrames plays for
// MeshCore's RS232 framing: buffer bytes, scan for the header, wait for a
// complete frame, validate, and resynchronize on any mismatch by dropping
// the header byte and rescanning. It holds no knowledge of command
// semantics.
type Reader struct {
	buf []byte

	// OnDrop, if set, is called with the reason each time the reader
	// discards a header byte while resynchronizing (bad length or bad
	// LRC). Bytes skipped while scanning for a header byte are dropped
	// without a callback. It is intended for debug tracing only — framing
	// errors are never surfaced to callers.
	OnDrop func(err error, dropped byte)
}

// NewReader creates an empty frame Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Feed appends data to the internal buffer and returns every complete,
// well-formed frame that can now be extracted. Malformed prefixes are
// dropped and scanning resumes after the offending header byte.
func (r *Reader) Feed(data []byte) []*Frame {
	r.buf = append(r.buf, data...)

	var frames []*Frame
	for {
		if len(r.buf) == 0 {
			break
		}
		idx := bytes.IndexByte(r.buf, HeaderByte)
		if idx < 0 {
			// No header byte anywhere in the buffer; nothing to keep.
			r.buf = r.buf[:0]
			break
		}
		if idx > 0 {
			// Drop the dead prefix before the header byte.
			r.buf = r.buf[idx:]
		}

		f, remaining, err := Decode(r.buf)
		if err == ErrTooShort {
			// Wait for more bytes; keep what we have.
			break
		}
		if err != nil {
			if r.OnDrop != nil {
				r.OnDrop(err, r.buf[0])
			}
			// Resync: drop just the header byte and rescan.
			r.buf = r.buf[1:]
			continue
		}

		frames = append(frames, f)
		r.buf = remaining
	}
	return frames
}

// Reset discards any buffered partial frame. Used when the device/reader
// layer resets host-side state.
func (r *Reader) Reset() {
	r.buf = r.buf[:0]
}
