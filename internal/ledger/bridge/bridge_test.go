package bridge_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/ledger/bridge"
	"github/chapool/ledger-signer/internal/ledger/emulator"
)

type lockedDevice struct {
	ledger.Device
}

func (lockedDevice) SignTransaction(context.Context, uint32, uint32, string) (*ledger.Signature, error) {
	return nil, ledger.ErrDeviceLocked
}

func serve(t *testing.T, device ledger.Device) *bridge.Transport {
	t.Helper()

	server, err := bridge.NewServer(device)
	require.NoError(t, err)
	t.Cleanup(server.Stop)

	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	return bridge.NewTransport(srv.URL)
}

func TestBridgeRoundTrip(t *testing.T) {
	emu, err := emulator.New(emulator.Config{})
	require.NoError(t, err)

	transport := serve(t, emu)

	device, err := transport.Open(t.Context())
	require.NoError(t, err)
	defer device.(*bridge.Device).Close()

	version, err := device.GetVersion(t.Context())
	require.NoError(t, err)
	assert.Equal(t, emulator.DefaultVersion, version)

	addr, err := device.GetAddress(t.Context(), ledger.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", addr)

	sig, err := device.SignTransaction(t.Context(), 0, 0,
		"ec098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080018080")
	require.NoError(t, err)

	direct, err := emu.SignTransaction(t.Context(), 0, 0,
		"ec098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080018080")
	require.NoError(t, err)
	assert.Equal(t, direct, sig)
}

func TestBridgeErrorClassification(t *testing.T) {
	emu, err := emulator.New(emulator.Config{})
	require.NoError(t, err)

	device, err := serve(t, lockedDevice{Device: emu}).Open(t.Context())
	require.NoError(t, err)

	_, err = device.SignTransaction(t.Context(), 0, 0, "c0")
	require.ErrorIs(t, err, ledger.ErrDeviceLocked)

	_, err = device.GetAddress(t.Context(), "not a path")
	require.ErrorIs(t, err, ledger.ErrDevice)
	assert.False(t, ledger.IsLocked(err))
}

func TestBridgeUnreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	// http transports dial lazily, the failure shows up on the first call
	device, err := bridge.NewTransport(url).Open(t.Context())
	require.NoError(t, err)

	_, err = device.GetVersion(t.Context())
	require.ErrorIs(t, err, ledger.ErrDevice)
}
