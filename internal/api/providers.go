package api

import (
	"github.com/pkg/errors"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/ledger/bridge"
	"github/chapool/ledger-signer/internal/ledger/emulator"
	"github/chapool/ledger-signer/internal/metrics"
	"github/chapool/ledger-signer/internal/wallet/provider"
	"github/chapool/ledger-signer/internal/wallet/signer"
)

// Transport types accepted in config.Ledger.Type.
const (
	TransportTypeDefault  = ledger.DefaultType
	TransportTypeBridge   = "bridge"
	TransportTypeEmulator = "emulator"
)

// NewTransport selects the device transport by the configured type.
//
//nolint:ireturn
func NewTransport(cfg config.Server) (ledger.Transport, error) {
	switch cfg.Ledger.Type {
	case TransportTypeDefault, TransportTypeBridge:
		if cfg.Ledger.BridgeURL == "" {
			return nil, errors.New("bridge URL is required")
		}
		return bridge.NewTransport(cfg.Ledger.BridgeURL), nil
	case TransportTypeEmulator:
		emu, err := emulator.New(emulator.Config{
			Mnemonic:         cfg.Emulator.Mnemonic,
			Passphrase:       cfg.Emulator.Passphrase,
			KeystoreFile:     cfg.Emulator.KeystoreFile,
			KeystorePassword: cfg.Emulator.KeystorePassword,
			Version:          cfg.Emulator.Version,
			ConfirmDelay:     cfg.Emulator.ConfirmDelay,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create emulator")
		}
		return emu, nil
	default:
		return nil, errors.Wrapf(ledger.ErrUnsupported, "unknown transport type %q", cfg.Ledger.Type)
	}
}

// NewProvider creates the RPC client, nil if no URLs are configured.
func NewProvider(cfg config.Server) (*provider.RPCClient, error) {
	if len(cfg.RPC.URLs) == 0 {
		return nil, nil //nolint:nilnil // broadcasting is optional
	}

	return provider.NewRPCClient(cfg.RPC.URLs)
}

func NewSigner(cfg config.Server, transport ledger.Transport, rpc *provider.RPCClient, metricsService *metrics.Service) (*signer.Ledger, error) {
	var p signer.Provider
	if rpc != nil {
		p = rpc
	}

	return signer.New(transport, p,
		signer.WithType(cfg.Ledger.Type),
		signer.WithPath(cfg.Ledger.Path),
		signer.WithRetry(
			ledger.WithAttempts(cfg.Ledger.Attempts),
			ledger.WithDelay(cfg.Ledger.Delay),
		),
		signer.WithSignTimeout(cfg.Ledger.SignTimeout),
		signer.WithVerifySender(cfg.Ledger.VerifySender),
		signer.WithObserver(metricsService),
	)
}
