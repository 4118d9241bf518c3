package ledger

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle of the device handle owned by a Session.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// InitError is returned by Session.Acquire when opening the transport or the
// handshake failed. It matches ErrTransportInit and the underlying cause.
type InitError struct {
	Stage string
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTransportInit.Error(), e.Stage, e.Err)
}

func (e *InitError) Unwrap() []error {
	return []error{ErrTransportInit, e.Err}
}

// Session lazily establishes the device handle. The transport is opened and the
// handshake performed at most once, the outcome (success or failure) is kept for
// the lifetime of the session.
type Session struct {
	transport Transport
	observer  Observer
	log       zerolog.Logger

	once  sync.Once
	done  chan struct{}
	state atomic.Int32

	// written once before done is closed
	device  Device
	version string
	err     error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithSessionLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.log = logger
	}
}

func WithSessionObserver(observer Observer) SessionOption {
	return func(s *Session) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// NewSession creates a session over transport. Nothing is opened until the first Acquire.
func NewSession(transport Transport, opts ...SessionOption) *Session {
	s := &Session{
		transport: transport,
		observer:  nopObserver{},
		log:       log.With().Str("component", "ledger_session").Logger(),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Acquire returns the live device handle, initializing it on first use.
// Concurrent callers all observe the outcome of the single initialization.
// If ctx is cancelled the caller stops waiting but initialization continues.
//
//nolint:ireturn // Device is an external capability
func (s *Session) Acquire(ctx context.Context) (Device, error) {
	s.once.Do(func() {
		s.state.Store(int32(StateInitializing))
		go s.initialize(context.WithoutCancel(ctx))
	})

	select {
	case <-s.done:
		return s.device, s.err
	default:
	}

	select {
	case <-s.done:
		return s.device, s.err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "failed to acquire device")
	}
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Version returns the handshake result, empty unless the session is ready.
func (s *Session) Version() string {
	if s.State() != StateReady {
		return ""
	}
	return s.version
}

func (s *Session) initialize(ctx context.Context) {
	defer close(s.done)

	s.log.Debug().Msg("Opening device transport")

	device, err := s.transport.Open(ctx)
	if err != nil {
		s.fail(&InitError{Stage: "open transport", Err: err})
		return
	}

	version, err := device.GetVersion(ctx)
	if err != nil {
		s.fail(&InitError{Stage: "handshake", Err: err})
		return
	}

	s.device = device
	s.version = version
	s.state.Store(int32(StateReady))
	s.observer.ObserveSessionInit(nil)

	s.log.Info().Str("version", version).Msg("Device session established")
}

func (s *Session) fail(err error) {
	s.err = err
	s.state.Store(int32(StateFailed))
	s.observer.ObserveSessionInit(err)

	s.log.Error().Err(err).Msg("Device session initialization failed")
}
