package serialport

import (
	"context"
	"testing"

	"github.com/impinj-r2000/r2000driver/transport"
)

func TestNewDefaults(t *testing.T) {
	s := New(Config{Port: "/dev/ttyUSB0"})
	if s.cfg.BaudRate != DefaultBaudRate {
		t.Errorf("BaudRate = %d, want %d", s.cfg.BaudRate, DefaultBaudRate)
	}
	if s.log == nil {
		t.Error("expected logger to be set")
	}
}

func TestWriteNotConnected(t *testing.T) {
	s := New(Config{Port: "/dev/ttyUSB0"})
	if err := s.Write([]byte{0x01}); err == nil {
		t.Fatal("expected error writing while not connected")
	}
}

func TestSetBaudRateNotConnected(t *testing.T) {
	s := New(Config{Port: "/dev/ttyUSB0"})
	if err := s.SetBaudRate(9600); err == nil {
		t.Fatal("expected error setting baud rate while not connected")
	}
}

func TestIsConnectedInitiallyFalse(t *testing.T) {
	s := New(Config{Port: "/dev/ttyUSB0"})
	if s.IsConnected() {
		t.Error("expected IsConnected() == false before Start")
	}
}

func TestStartRequiresPort(t *testing.T) {
	s := New(Config{})
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for empty port")
	}
}

func TestSetReadHandlerPropagatesBytes(t *testing.T) {
	s := New(Config{Port: "/dev/ttyUSB0"})

	var got []byte
	s.SetReadHandler(func(data []byte) { got = data })

	s.mu.RLock()
	handler := s.readHandler
	s.mu.RUnlock()
	if handler == nil {
		t.Fatal("expected readHandler to be set")
	}
	handler([]byte{0xA0, 0x01})
	if len(got) != 2 {
		t.Errorf("readHandler did not propagate data: %v", got)
	}
}

func TestSetStateHandlerStored(t *testing.T) {
	s := New(Config{Port: "/dev/ttyUSB0"})

	var gotEvent transport.Event = -1
	s.SetStateHandler(func(sink transport.ByteSink, event transport.Event) { gotEvent = event })

	s.mu.RLock()
	handler := s.stateHandler
	s.mu.RUnlock()
	if handler == nil {
		t.Fatal("expected stateHandler to be set")
	}
	handler(s, transport.EventConnected)
	if gotEvent != transport.EventConnected {
		t.Errorf("gotEvent = %v, want EventConnected", gotEvent)
	}
}
