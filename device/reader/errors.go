package reader

import (
	"errors"
	"fmt"

	"github.com/impinj-r2000/r2000driver/core/proto"
)

// ErrTimeout is returned when a command's deadline fires before the
// dispatcher resolves it. RESET (which the reader never replies to) and
// the real-time, session and fast-switch-antenna inventory commands are
// the exceptions: for them a timeout is success.
var ErrTimeout = errors.New("reader: timed out waiting for reply")

// ErrNotConnected is returned when a command is sent while the byte
// sink has not been started.
var ErrNotConnected = errors.New("reader: not connected")

// ProtocolError wraps a reader-reported error code for the caller: a
// failed result with the raw code preserved, rather than a bare
// "protocol error" with no detail.
type ProtocolError struct {
	Command proto.Command
	Code    proto.ErrorCode
}

func (e *ProtocolError) Error() string {
	info, _ := proto.Describe(e.Command)
	return fmt.Sprintf("reader: %s failed: %s (0x%02X)", info.Name, proto.ErrorName(e.Code), byte(e.Code))
}

func errInvalidAntennaSequence(n int) error {
	return fmt.Errorf("reader: antenna sequence must have 4 or 8 entries, got %d", n)
}

func errShortReply(what string, n int) error {
	return fmt.Errorf("reader: %s reply too short: %d bytes", what, n)
}
