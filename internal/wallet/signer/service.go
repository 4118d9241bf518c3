package signer

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/wallet/address"
)

// Device account and address index used for signing.
const (
	signAccountIndex = 0
	signAddressIndex = 0
)

type settings struct {
	retry        []ledger.Option
	observer     ledger.Observer
	signTimeout  time.Duration
	verifySender bool
	log          zerolog.Logger
}

// Option configures a Ledger signer.
type Option func(*Ledger)

// WithType sets the transport discriminator, "default" if unset.
func WithType(typ string) Option {
	return func(l *Ledger) {
		if typ != "" {
			l.typ = typ
		}
	}
}

// WithPath sets the derivation path, ledger.DefaultPath if unset.
func WithPath(path string) Option {
	return func(l *Ledger) {
		if path != "" {
			l.path = path
		}
	}
}

// WithRetry overrides the retry executor settings.
func WithRetry(opts ...ledger.Option) Option {
	return func(l *Ledger) {
		l.settings.retry = append(l.settings.retry, opts...)
	}
}

// WithSignTimeout bounds every SignTransaction call, zero means no overall timeout.
func WithSignTimeout(timeout time.Duration) Option {
	return func(l *Ledger) {
		l.settings.signTimeout = timeout
	}
}

// WithVerifySender checks that signed transactions recover to the device address.
func WithVerifySender(verify bool) Option {
	return func(l *Ledger) {
		l.settings.verifySender = verify
	}
}

// WithObserver reports session and attempt events, and signing events if the
// observer implements TransactionObserver.
func WithObserver(observer ledger.Observer) Option {
	return func(l *Ledger) {
		l.settings.observer = observer
	}
}

// WithLogger sets the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Ledger) {
		l.settings.log = logger
	}
}

// Ledger is the Signer backed by a hardware device reached through a Transport.
// Path and type never change after construction.
type Ledger struct {
	transport ledger.Transport
	provider  Provider
	typ       string
	path      string
	settings  settings

	session *ledger.Session
	exec    *ledger.Executor
}

// New creates a signer. The device is not contacted until the first operation.
// provider may be nil, SendTransaction then fails with ErrMissingProvider.
func New(transport ledger.Transport, provider Provider, opts ...Option) (*Ledger, error) {
	if transport == nil {
		return nil, errors.New("transport is required")
	}

	l := &Ledger{
		transport: transport,
		provider:  provider,
		typ:       ledger.DefaultType,
		path:      ledger.DefaultPath,
		settings: settings{
			log: log.With().Str("component", "ledger_signer").Logger(),
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	if _, err := address.ParseDerivationPath(l.path); err != nil {
		return nil, errors.Wrap(err, "invalid derivation path")
	}

	l.initSession()

	return l, nil
}

// Connect returns a new signer bound to provider with the same path and type.
// The new signer opens its own device session; the receiver is left untouched.
//
//nolint:ireturn // Signer capability
func (l *Ledger) Connect(provider Provider) Signer {
	connected := &Ledger{
		transport: l.transport,
		provider:  provider,
		typ:       l.typ,
		path:      l.path,
		settings:  l.settings,
	}
	connected.initSession()

	return connected
}

// Path returns the derivation path.
func (l *Ledger) Path() string {
	return l.path
}

// Type returns the transport discriminator.
func (l *Ledger) Type() string {
	return l.typ
}

// Provider returns the bound provider, nil if none.
//
//nolint:ireturn
func (l *Ledger) Provider() Provider {
	return l.provider
}

// State returns the lifecycle state of the device session.
func (l *Ledger) State() ledger.State {
	return l.session.State()
}

// Version returns the device application version once the session is ready.
func (l *Ledger) Version() string {
	return l.session.Version()
}

func (l *Ledger) initSession() {
	logger := l.settings.log.With().Str("type", l.typ).Str("path", l.path).Logger()

	sessionOpts := []ledger.SessionOption{ledger.WithSessionLogger(logger)}
	execOpts := []ledger.Option{ledger.WithLogger(logger)}
	if l.settings.observer != nil {
		sessionOpts = append(sessionOpts, ledger.WithSessionObserver(l.settings.observer))
		execOpts = append(execOpts, ledger.WithObserver(l.settings.observer))
	}

	l.session = ledger.NewSession(l.transport, sessionOpts...)
	l.exec = ledger.NewExecutor(l.session, append(execOpts, l.settings.retry...)...)
}

func (l *Ledger) transactionObserver() (TransactionObserver, bool) {
	observer, ok := l.settings.observer.(TransactionObserver)
	return observer, ok
}
