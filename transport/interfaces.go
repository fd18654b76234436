// Package transport defines the byte-level contract device/reader uses
// to talk to an R2000 reader, plus concrete ByteSink implementations
// (serialport, mqttbridge). The R2000 has no packet-aware transport of
// its own — framing is core/frame's job — so this contract operates on
// raw bytes, not packets.
package transport

import "context"

// ByteSink is the byte-stream interface device/reader writes commands
// to and reads replies from. Implementations own the physical link
// (serial port, MQTT bridge, ...); the reader owns framing and command
// correlation.
type ByteSink interface {
	// Start opens the underlying link and begins delivering inbound
	// bytes to the handler set by SetReadHandler. The provided context
	// controls the link's lifetime.
	Start(ctx context.Context) error
	// Stop closes the underlying link.
	Stop() error
	// IsConnected reports whether the link is currently open.
	IsConnected() bool
	// Write sends raw bytes to the reader. It does not block waiting
	// for a reply.
	Write(data []byte) error
	// SetReadHandler sets the callback invoked with each chunk of bytes
	// read from the link, in arrival order.
	SetReadHandler(fn func(data []byte))
	// SetStateHandler sets the callback for link state changes.
	SetStateHandler(fn StateHandler)
	// SetBaudRate changes the link's baud rate without closing it,
	// "mutable baud-rate change" requirement. Returns
	// an error if the link does not support changing baud while open.
	SetBaudRate(bps int) error
}

// StateHandler is called when a ByteSink's connection state changes.
type StateHandler func(sink ByteSink, event Event)

// Event represents a ByteSink state change.
type Event int

const (
	// EventConnected fires when the link connects.
	EventConnected Event = iota
	// EventDisconnected fires when the link disconnects.
	EventDisconnected
	// EventReconnecting fires when the link is attempting to reconnect.
	EventReconnecting
	// EventError fires when an error occurs.
	EventError
)

func (e Event) String() string {
	switch e {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventReconnecting:
		return "reconnecting"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
