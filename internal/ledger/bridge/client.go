// Package bridge reaches a signing device through a JSON-RPC daemon that owns the
// USB connection. The daemon exposes the "device" namespace served by NewServer.
package bridge

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github/chapool/ledger-signer/internal/ledger"
)

// JSON-RPC error codes used by the device namespace.
const (
	CodeDeviceLocked = -32010
	CodeDeviceError  = -32011
)

// Transport dials the bridge daemon.
type Transport struct {
	url string
}

// NewTransport creates a transport for the daemon at url (http, ws or ipc path).
func NewTransport(url string) *Transport {
	return &Transport{url: url}
}

// Open implements ledger.Transport.
//
//nolint:ireturn // Device is the transport contract
func (t *Transport) Open(ctx context.Context) (ledger.Device, error) {
	client, err := rpc.DialContext(ctx, t.url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial bridge %s", t.url)
	}

	return &Device{client: client}, nil
}

// Device forwards calls to the bridge daemon.
type Device struct {
	client *rpc.Client
}

func (d *Device) GetVersion(ctx context.Context) (string, error) {
	var version string
	if err := d.client.CallContext(ctx, &version, "device_getVersion"); err != nil {
		return "", classify(err)
	}
	return version, nil
}

func (d *Device) GetAddress(ctx context.Context, path string) (string, error) {
	var addr string
	if err := d.client.CallContext(ctx, &addr, "device_getAddress", path); err != nil {
		return "", classify(err)
	}
	return addr, nil
}

func (d *Device) SignTransaction(ctx context.Context, accountIndex, addressIndex uint32, unsignedHex string) (*ledger.Signature, error) {
	var sig ledger.Signature
	if err := d.client.CallContext(ctx, &sig, "device_signTransaction", accountIndex, addressIndex, unsignedHex); err != nil {
		return nil, classify(err)
	}
	return &sig, nil
}

// Close releases the connection to the daemon.
func (d *Device) Close() {
	d.client.Close()
}

// classify maps daemon errors onto the ledger error kinds. Connection failures
// count as device errors (disconnected).
func classify(err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == CodeDeviceLocked {
		return fmt.Errorf("%w: %s", ledger.ErrDeviceLocked, rpcErr.Error())
	}

	return fmt.Errorf("%w: %w", ledger.ErrDevice, err)
}
