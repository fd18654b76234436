// Package reader implements the typed public command engine for an
// Impinj Indy R2000 reader. Reader owns the pending-command FIFO, wires
// a dispatcher and per-address accumulator queues to a transport.ByteSink,
// and exposes one Go method per R2000 command. Each call correlates its
// own reply by FIFO command-code match rather than by a shared tracker
// and polling loop: the R2000 protocol needs no retry logic, only
// deadline-based failure, so each call owns its own timer.
package reader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/impinj-r2000/r2000driver/core/frame"
	"github.com/impinj-r2000/r2000driver/core/proto"
	"github.com/impinj-r2000/r2000driver/core/tag"
	"github.com/impinj-r2000/r2000driver/device/dispatch"
	"github.com/impinj-r2000/r2000driver/device/queue"
	"github.com/impinj-r2000/r2000driver/transport"
)

// DefaultTimeout is the deadline applied to a command with no explicit
// inventory-style timeout computation.
const DefaultTimeout = 1 * time.Second

// AntennaMissingEvent reports an unsolicited antenna-missing packet
// during a fast-switch-antenna inventory round.
type AntennaMissingEvent struct {
	Antenna byte
	Code    proto.ErrorCode
}

// Config configures a Reader.
type Config struct {
	// Address is the initial target address (0xFF = broadcast).
	Address byte

	// StrictResync hard-fails every command whose reply is discarded
	// during a pending-list resync, instead of letting it silently time
	// out. See dispatch.Config.StrictResync.
	StrictResync bool

	// EventBufferSize sizes the Events/AntennaEvents/Events6B channels.
	// Defaults to 64.
	EventBufferSize int

	// DefaultTimeout is the deadline applied to every command that isn't
	// an inventory round (which computes its own).
	// Defaults to DefaultTimeout.
	DefaultTimeout time.Duration

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Address == 0 {
		c.Address = 0xFF
	}
	if c.EventBufferSize == 0 {
		c.EventBufferSize = 64
	}
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

type pendingEntry struct {
	command          proto.Command
	ch               chan dispatch.Result
	extend           chan struct{}
	timeoutIsSuccess bool
}

// Reader is the public command engine. It is safe for concurrent use by
// multiple goroutines issuing commands, though the R2000 itself only ever
// has one reply in flight for the head of the pending list at a time.
type Reader struct {
	cfg Config
	log *slog.Logger

	sink       transport.ByteSink
	frameIn    *frame.Reader
	dispatcher *dispatch.Dispatcher
	queues     *queue.Table

	mu        sync.Mutex
	address   byte
	phaseMode bool
	pending   []*pendingEntry

	// sendMu serializes send's append-to-pending-FIFO-then-Write
	// sequence across concurrent callers, so the wire order of
	// outbound frames always matches the order their entries land in
	// the pending FIFO. Without it, two callers could append in one
	// order and Write in the other, letting a reply resolve the wrong
	// caller's entry.
	sendMu sync.Mutex

	tagEvents     chan tag.InventoryTag
	antennaEvents chan AntennaMissingEvent
	sixBEvents    chan tag.Tag6B
}

// New creates a Reader bound to sink. Call Start before issuing commands.
func New(sink transport.ByteSink, cfg Config) *Reader {
	cfg = cfg.withDefaults()
	r := &Reader{
		cfg:           cfg,
		log:           cfg.Logger.WithGroup("reader"),
		sink:          sink,
		frameIn:       frame.NewReader(),
		queues:        queue.NewTable(),
		address:       cfg.Address,
		tagEvents:     make(chan tag.InventoryTag, cfg.EventBufferSize),
		antennaEvents: make(chan AntennaMissingEvent, cfg.EventBufferSize),
		sixBEvents:    make(chan tag.Tag6B, cfg.EventBufferSize),
	}
	r.dispatcher = dispatch.New(dispatch.Config{
		Address:      func() byte { return r.currentAddress() },
		PhaseMode:    func() bool { return r.currentPhaseMode() },
		StrictResync: cfg.StrictResync,
		Logger:       cfg.Logger,
		Events: dispatch.Events{
			OnTag:            r.emitTag,
			OnAntennaMissing: r.emitAntennaMissing,
			On6BTag:          r.emit6BTag,
		},
	}, r, r.queues)
	return r
}

// Start opens the underlying transport and begins processing inbound
// bytes. The context controls the transport's lifetime; Stop may also be
// called directly.
func (r *Reader) Start(ctx context.Context) error {
	r.sink.SetReadHandler(r.onBytes)
	return r.sink.Start(ctx)
}

// Stop closes the underlying transport.
func (r *Reader) Stop() error {
	return r.sink.Stop()
}

// Events streams solicited-inventory and unsolicited C1G2 tag sightings.
func (r *Reader) Events() <-chan tag.InventoryTag { return r.tagEvents }

// AntennaEvents streams unsolicited antenna-missing notifications emitted
// during fast-switch-antenna inventory rounds.
func (r *Reader) AntennaEvents() <-chan AntennaMissingEvent { return r.antennaEvents }

// Events6B streams unsolicited ISO 18000-6B tag sightings.
func (r *Reader) Events6B() <-chan tag.Tag6B { return r.sixBEvents }

func (r *Reader) onBytes(data []byte) {
	for _, f := range r.frameIn.Feed(data) {
		r.dispatcher.HandleFrame(f)
	}
}

func (r *Reader) currentAddress() byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.address
}

func (r *Reader) currentPhaseMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phaseMode
}

func (r *Reader) setPhaseMode(on bool) {
	r.mu.Lock()
	r.phaseMode = on
	r.mu.Unlock()
}

func (r *Reader) emitTag(t tag.InventoryTag) {
	select {
	case r.tagEvents <- t:
	default:
		r.log.Debug("dropped tag event: subscriber channel full")
	}
}

func (r *Reader) emitAntennaMissing(antenna byte, code proto.ErrorCode) {
	select {
	case r.antennaEvents <- AntennaMissingEvent{Antenna: antenna, Code: code}:
	default:
		r.log.Debug("dropped antenna-missing event: subscriber channel full")
	}
}

func (r *Reader) emit6BTag(t tag.Tag6B) {
	select {
	case r.sixBEvents <- t:
	default:
		r.log.Debug("dropped 6B tag event: subscriber channel full")
	}
}

// --- dispatch.PendingSink ---

func (r *Reader) Front() (proto.Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return 0, false
	}
	return r.pending[0].command, true
}

func (r *Reader) PopFront() (proto.Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return 0, false
	}
	e := r.pending[0]
	r.pending = r.pending[1:]
	return e.command, true
}

// FailFront discards the head entry and immediately wakes its caller
// with a failed result (used only when StrictResync is enabled).
func (r *Reader) FailFront(reason string) (proto.Command, bool) {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return 0, false
	}
	e := r.pending[0]
	r.pending = r.pending[1:]
	r.mu.Unlock()

	r.log.Debug("failing pending command", "command", e.command, "reason", reason)
	select {
	case e.ch <- dispatch.Result{Command: e.command, Success: false}:
	default:
	}
	return e.command, true
}

func (r *Reader) Resolve(result dispatch.Result) {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return
	}
	e := r.pending[0]
	r.pending = r.pending[1:]
	r.mu.Unlock()

	select {
	case e.ch <- result:
	default:
	}
}

// RefreshFrontDeadline signals the head entry's own wait loop to extend
// its timer. Only the waiting goroutine itself ever resets its timer, so
// this is race-free without requiring a lock over the timer.
func (r *Reader) RefreshFrontDeadline() {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return
	}
	e := r.pending[0]
	r.mu.Unlock()

	select {
	case e.extend <- struct{}{}:
	default:
	}
}

// removeEntry deletes entry from the pending list if still present,
// reporting whether it was found there (false means the dispatcher
// already resolved or popped it concurrently).
func (r *Reader) removeEntry(entry *pendingEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.pending {
		if e == entry {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return true
		}
	}
	return false
}

// send writes one command frame and suspends until the dispatcher
// resolves the matching pending entry, the deadline fires, or ctx is
// canceled. When timeoutIsSuccess is set the deadline elapsing counts as
// success rather than failure; RESET and the real-time, session and
// fast-switch-antenna inventory commands send with it set, so those
// inventory calls do not return their terminal summary reply.
func (r *Reader) send(ctx context.Context, cmd proto.Command, payload []byte, timeout time.Duration, timeoutIsSuccess bool) (dispatch.Result, error) {
	if !r.sink.IsConnected() {
		return dispatch.Result{}, ErrNotConnected
	}

	entry := &pendingEntry{
		command:          cmd,
		ch:               make(chan dispatch.Result, 1),
		extend:           make(chan struct{}, 1),
		timeoutIsSuccess: timeoutIsSuccess,
	}

	// Holding sendMu across both the append and the Write keeps wire
	// order equal to pending-FIFO order under concurrent callers: a
	// second call cannot write its frame until this one's entry is
	// already ahead of it in the FIFO.
	r.sendMu.Lock()
	r.mu.Lock()
	addr := r.address
	r.pending = append(r.pending, entry)
	r.mu.Unlock()

	wire := frame.Encode(addr, byte(cmd), payload)
	err := r.sink.Write(wire)
	r.sendMu.Unlock()
	if err != nil {
		r.removeEntry(entry)
		return dispatch.Result{}, fmt.Errorf("reader: write %s: %w", nameOf(cmd), err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case result := <-entry.ch:
			return result, nil

		case <-entry.extend:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(timeout)

		case <-timer.C:
			if !r.removeEntry(entry) {
				// Dispatcher grabbed it between the timer firing and the
				// removal attempt; take whatever it left for us.
				select {
				case result := <-entry.ch:
					return result, nil
				default:
				}
			}
			if timeoutIsSuccess {
				return dispatch.Result{Command: cmd, Success: true}, nil
			}
			return dispatch.Result{}, fmt.Errorf("%s: %w", nameOf(cmd), ErrTimeout)

		case <-ctx.Done():
			r.removeEntry(entry)
			return dispatch.Result{}, ctx.Err()
		}
	}
}

func nameOf(cmd proto.Command) string {
	if info, ok := proto.Describe(cmd); ok {
		return info.Name
	}
	return fmt.Sprintf("0x%02X", byte(cmd))
}

// protocolResult turns a resolved Result into an error iff it reports a
// reader-side protocol failure
func protocolResult(cmd proto.Command, result dispatch.Result) error {
	if result.Success {
		return nil
	}
	if result.ErrorCode != nil {
		return &ProtocolError{Command: cmd, Code: *result.ErrorCode}
	}
	return fmt.Errorf("reader: %s failed with no error code", nameOf(cmd))
}
