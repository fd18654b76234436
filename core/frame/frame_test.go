package frame

import (
	"bytes"
	"testing"
)

func TestEncodeReset(t *testing.T) {
	got := Encode(0xFF, 0x70, nil)
	want := []byte{0xA0, 0x03, 0xFF, 0x70, 0xEE}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(reset) = % X, want % X", got, want)
	}
}

func TestEncodeSetWorkingAntenna(t *testing.T) {
	got := Encode(0xFF, 0x74, []byte{0x01})
	want := []byte{0xA0, 0x04, 0xFF, 0x74, 0x01, 0xE8}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(set working antenna) = % X, want % X", got, want)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	wire := Encode(0x01, 0x75, []byte{0x02, 0x03})
	f, remaining, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining = % X, want empty", remaining)
	}
	if f.Address != 0x01 || f.Command != 0x75 {
		t.Errorf("Address/Command = %02X/%02X, want 01/75", f.Address, f.Command)
	}
	if !bytes.Equal(f.Payload, []byte{0x02, 0x03}) {
		t.Errorf("Payload = % X, want 02 03", f.Payload)
	}
}

func TestDecodeTooShort(t *testing.T) {
	_, remaining, err := Decode([]byte{0xA0, 0x04, 0xFF})
	if err != ErrTooShort {
		t.Fatalf("err = %v, want ErrTooShort", err)
	}
	if len(remaining) != 3 {
		t.Errorf("remaining should be unconsumed on ErrTooShort")
	}
}

func TestDecodeBadHeader(t *testing.T) {
	_, _, err := Decode([]byte{0xB0, 0x04, 0xFF, 0x74, 0x01, 0xE8})
	if err != ErrBadHeader {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}

func TestDecodeBadLength(t *testing.T) {
	_, _, err := Decode([]byte{0xA0, 0x02, 0xFF, 0x74, 0xE8})
	if err == nil {
		t.Fatal("expected an error for length < MinLength")
	}
}

func TestDecodeBadLRC(t *testing.T) {
	_, _, err := Decode([]byte{0xA0, 0x04, 0xFF, 0x74, 0x01, 0x00})
	if err == nil {
		t.Fatal("expected an LRC mismatch error")
	}
}

func TestReaderFeedSingleFrame(t *testing.T) {
	r := NewReader()
	wire := Encode(0xFF, 0x74, []byte{0x10})
	frames := r.Feed(wire)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].Command != 0x74 {
		t.Errorf("Command = %02X, want 74", frames[0].Command)
	}
}

func TestReaderFeedPartialThenRest(t *testing.T) {
	r := NewReader()
	wire := Encode(0xFF, 0x74, []byte{0x10})
	if frames := r.Feed(wire[:3]); len(frames) != 0 {
		t.Fatalf("got %d frames from a partial feed, want 0", len(frames))
	}
	frames := r.Feed(wire[3:])
	if len(frames) != 1 {
		t.Fatalf("got %d frames after completing the buffer, want 1", len(frames))
	}
}

func TestReaderResyncOnGarbagePrefix(t *testing.T) {
	r := NewReader()
	wire := Encode(0xFF, 0x74, []byte{0x10})
	noisy := append([]byte{0x00, 0xFF, 0x01}, wire...)
	frames := r.Feed(noisy)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
}

func TestReaderResyncOnBadLRC(t *testing.T) {
	r := NewReader()
	good := Encode(0xFF, 0x74, []byte{0x10})
	corrupt := append([]byte{}, good...)
	corrupt[len(corrupt)-1] ^= 0xFF // break the LRC

	var dropped int
	r.OnDrop = func(err error, b byte) { dropped++ }

	combined := append(corrupt, good...)
	frames := r.Feed(combined)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1 (only the second, valid frame)", len(frames))
	}
	if dropped == 0 {
		t.Error("expected OnDrop to be called while resynchronizing")
	}
}

func TestReaderFeedTwoFramesBackToBack(t *testing.T) {
	r := NewReader()
	a := Encode(0xFF, 0x74, []byte{0x10})
	b := Encode(0xFF, 0x75, []byte{0x02})
	frames := r.Feed(append(append([]byte{}, a...), b...))
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Command != 0x74 || frames[1].Command != 0x75 {
		t.Errorf("unexpected command sequence: %02X %02X", frames[0].Command, frames[1].Command)
	}
}

func TestRecordCountHeader(t *testing.T) {
	count, err := RecordCountHeader([]byte{0x00, 0x02, 0xAA})
	if err != nil {
		t.Fatalf("RecordCountHeader: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
