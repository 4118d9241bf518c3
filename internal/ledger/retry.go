package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultAttempts caps the number of device calls per operation (about 5 seconds of waiting).
	DefaultAttempts = 50
	// DefaultDelay is the pause between two attempts while the device is locked.
	DefaultDelay = 100 * time.Millisecond
)

// Clock is the time source of the executor, replaced in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Operation is a single call against the device.
type Operation[T any] func(ctx context.Context, device Device) (T, error)

// Executor runs operations against the device of a session, retrying while the
// device reports ErrDeviceLocked.
type Executor struct {
	session  *Session
	attempts int
	delay    time.Duration
	clock    Clock
	observer Observer
	log      zerolog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

func WithAttempts(attempts int) Option {
	return func(e *Executor) {
		if attempts > 0 {
			e.attempts = attempts
		}
	}
}

func WithDelay(delay time.Duration) Option {
	return func(e *Executor) {
		if delay >= 0 {
			e.delay = delay
		}
	}
}

func WithClock(clock Clock) Option {
	return func(e *Executor) {
		if clock != nil {
			e.clock = clock
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(e *Executor) {
		if observer != nil {
			e.observer = observer
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) {
		e.log = logger
	}
}

// NewExecutor creates an executor bound to session.
func NewExecutor(session *Session, opts ...Option) *Executor {
	e := &Executor{
		session:  session,
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		clock:    realClock{},
		observer: nopObserver{},
		log:      log.With().Str("component", "ledger_retry").Logger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Session returns the session the executor acquires its device from.
func (e *Executor) Session() *Session {
	return e.session
}

// Do acquires the device and runs op, retrying on ErrDeviceLocked with a fixed
// delay up to the attempt cap. Any other error is returned immediately.
//
// If timeout is positive, the call fails with ErrTimeout once it elapses, no
// matter how far the retry loop got. The in-flight device call cannot be aborted;
// it sees a cancelled context and its late result is dropped.
func Do[T any](ctx context.Context, e *Executor, name string, op Operation[T], timeout time.Duration) (T, error) {
	if timeout <= 0 {
		return run(ctx, e, name, op)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		value T
		err   error
	}

	deadline := e.clock.After(timeout)
	done := make(chan result, 1)

	go func() {
		value, err := run(ctx, e, name, op)
		done <- result{value: value, err: err}
	}()

	var zero T
	select {
	case res := <-done:
		return res.value, res.err
	case <-deadline:
		e.observer.ObserveAttempt(name, OutcomeTimeout)
		e.log.Warn().Str("op", name).Dur("timeout", timeout).Msg("Device operation deadline elapsed")
		return zero, errors.Wrapf(ErrTimeout, "%s: deadline of %s elapsed", name, timeout)
	case <-ctx.Done():
		return zero, errors.Wrapf(ctx.Err(), "%s: aborted", name)
	}
}

func run[T any](ctx context.Context, e *Executor, name string, op Operation[T]) (T, error) {
	var zero T

	device, err := e.session.Acquire(ctx)
	if err != nil {
		return zero, err
	}

	for attempt := 1; attempt <= e.attempts; attempt++ {
		value, err := op(ctx, device)
		if err == nil {
			e.observer.ObserveAttempt(name, OutcomeSuccess)
			return value, nil
		}

		if !IsLocked(err) {
			e.observer.ObserveAttempt(name, OutcomeFailure)
			return zero, err
		}

		e.observer.ObserveAttempt(name, OutcomeLocked)
		e.log.Debug().Str("op", name).Int("attempt", attempt).Msg("Device locked, retrying")

		// no wait after the last attempt
		if attempt == e.attempts {
			break
		}

		select {
		case <-e.clock.After(e.delay):
		case <-ctx.Done():
			return zero, errors.Wrapf(ctx.Err(), "%s: aborted while device locked", name)
		}
	}

	return zero, errors.Wrapf(ErrTimeout, "%s: device still locked after %d attempts", name, e.attempts)
}
