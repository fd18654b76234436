// Package serialport implements transport.ByteSink over a physical RS-232/
// RS-485 serial link to an Impinj Indy R2000 reader.
package serialport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/impinj-r2000/r2000driver/transport"
	"go.bug.st/serial"
)

var _ transport.ByteSink = (*Sink)(nil)

const (
	// DefaultBaudRate matches the R2000's factory default UART setting.
	DefaultBaudRate = 115200

	readBufSize = 1024
)

// Config holds the configuration for a serial ByteSink.
type Config struct {
	// Port is the serial port path (e.g., "/dev/ttyUSB0" or "COM3").
	Port string
	// BaudRate is the serial baud rate. Defaults to DefaultBaudRate.
	BaudRate int
	// Logger is the logger to use. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Sink implements transport.ByteSink over a go.bug.st/serial port.
type Sink struct {
	cfg Config
	log *slog.Logger

	mu          sync.RWMutex
	port        serial.Port
	connected   bool
	cancel      context.CancelFunc
	done        chan struct{}
	readHandler func(data []byte)
	stateHandler transport.StateHandler
}

// New creates a serial ByteSink with the given configuration.
func New(cfg Config) *Sink {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Sink{
		cfg: cfg,
		log: cfg.Logger.WithGroup("serialport"),
	}
}

// Start opens the serial port and begins delivering inbound bytes.
func (s *Sink) Start(ctx context.Context) error {
	if s.cfg.Port == "" {
		return errors.New("serialport: port is required")
	}

	mode := &serial.Mode{BaudRate: s.cfg.BaudRate}
	port, err := serial.Open(s.cfg.Port, mode)
	if err != nil {
		return fmt.Errorf("serialport: opening %s: %w", s.cfg.Port, err)
	}

	s.mu.Lock()
	s.port = port
	s.connected = true
	s.done = make(chan struct{})
	handler := s.stateHandler
	s.mu.Unlock()

	readCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.readLoop(readCtx)

	s.log.Info("connected to serial port", "port", s.cfg.Port, "baud", s.cfg.BaudRate)
	if handler != nil {
		handler(s, transport.EventConnected)
	}
	return nil
}

// Stop closes the serial port and waits for the read loop to finish.
func (s *Sink) Stop() error {
	s.mu.Lock()
	handler := s.stateHandler
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	s.mu.Lock()
	s.connected = false
	port := s.port
	s.port = nil
	done := s.done
	s.mu.Unlock()

	var err error
	if port != nil {
		err = port.Close()
	}
	if done != nil {
		<-done
	}
	if handler != nil {
		handler(s, transport.EventDisconnected)
	}
	return err
}

// IsConnected reports whether the serial port is open.
func (s *Sink) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Write sends raw bytes to the reader over the serial port.
func (s *Sink) Write(data []byte) error {
	s.mu.RLock()
	port := s.port
	connected := s.connected
	s.mu.RUnlock()

	if !connected || port == nil {
		return errors.New("serialport: not connected")
	}
	if _, err := port.Write(data); err != nil {
		return fmt.Errorf("serialport: write: %w", err)
	}
	return nil
}

// SetReadHandler sets the callback invoked with each chunk of bytes read
// from the port, in arrival order.
func (s *Sink) SetReadHandler(fn func(data []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readHandler = fn
}

// SetStateHandler sets the callback for connection state changes.
func (s *Sink) SetStateHandler(fn transport.StateHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateHandler = fn
}

// SetBaudRate reconfigures the open port's baud rate in place, matching
// the reader engine's call after a successful SET_BAUDRATE command.
func (s *Sink) SetBaudRate(bps int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return errors.New("serialport: not connected")
	}
	if err := s.port.SetMode(&serial.Mode{BaudRate: bps}); err != nil {
		return fmt.Errorf("serialport: set baud rate: %w", err)
	}
	s.cfg.BaudRate = bps
	return nil
}

// readLoop continuously reads raw bytes from the port and forwards them
// to the read handler; frame assembly is the caller's responsibility.
func (s *Sink) readLoop(ctx context.Context) {
	defer close(s.done)

	buf := make([]byte, readBufSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := s.port.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				s.handleDisconnect(err)
				return
			}
			s.log.Error("serial read error", "error", err)
			s.handleDisconnect(err)
			return
		}
		if n == 0 {
			continue
		}

		s.mu.RLock()
		handler := s.readHandler
		s.mu.RUnlock()
		if handler != nil {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			handler(chunk)
		}
	}
}

func (s *Sink) handleDisconnect(err error) {
	s.mu.Lock()
	s.connected = false
	handler := s.stateHandler
	s.mu.Unlock()

	if err != nil {
		s.log.Error("serial disconnected", "error", err)
	}
	if handler != nil {
		handler(s, transport.EventDisconnected)
	}
}
