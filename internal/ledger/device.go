package ledger

import "context"

const (
	// DefaultPath is the BIP-44 derivation path of the first Ethereum account.
	DefaultPath = "m/44'/60'/0'/0/0"

	// DefaultType is the transport discriminator used when none is configured.
	DefaultType = "default"
)

// Signature holds the signature components returned by the device.
// R and S arrive as hex without the 0x prefix, V is hex as well.
type Signature struct {
	V string `json:"v"`
	R string `json:"r"`
	S string `json:"s"`
}

// Device is a live session with the signing application on a hardware device.
// Every call may fail with ErrDeviceLocked if the device is busy.
type Device interface {
	// GetVersion returns the version of the signing application, used as handshake
	GetVersion(ctx context.Context) (string, error)

	// GetAddress returns the hex address of the key at path
	GetAddress(ctx context.Context, path string) (string, error)

	// SignTransaction asks the device to sign the hex encoded unsigned transaction
	// with the key at account/address index
	SignTransaction(ctx context.Context, accountIndex, addressIndex uint32, unsignedHex string) (*Signature, error)
}

// Transport opens a channel to the physical device.
type Transport interface {
	Open(ctx context.Context) (Device, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context) (Device, error)

func (f TransportFunc) Open(ctx context.Context) (Device, error) {
	return f(ctx)
}
