package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/api/router"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/ledger/emulator"
)

// DefaultTestConfig returns the server config used by tests: emulator transport, no RPC
// provider and a short retry delay.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Logger.PrettyPrintConsole = false
	cfg.Ledger.Type = api.TransportTypeEmulator
	cfg.Ledger.Path = ledger.DefaultPath
	cfg.Ledger.Delay = time.Millisecond
	cfg.Ledger.SignTimeout = 0
	cfg.RPC.URLs = nil

	return cfg
}

// WithTestServer returns a fully configured server backed by a fresh emulator.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	emu, err := emulator.New(emulator.Config{})
	require.NoError(t, err)

	WithTestServerConfigurable(t, DefaultTestConfig(), emu, closure)
}

// WithTestServerConfigurable returns a fully configured server talking to transport.
func WithTestServerConfigurable(t *testing.T, config config.Server, transport ledger.Transport, closure func(s *api.Server)) {
	t.Helper()

	s, err := api.InitNewServerWithTransport(config, transport)
	if err != nil {
		t.Fatalf("failed to init server: %v", err)
	}

	if err := router.Init(s); err != nil {
		t.Fatalf("failed to init router: %v", err)
	}

	closure(s)

	// echo is managed and should close automatically after running the test
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("failed to shutdown server: %v", errs)
	}
}
