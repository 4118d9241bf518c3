package ledger

import (
	"github.com/pkg/errors"
)

var (
	// ErrTransportInit is returned when the transport channel could not be opened or the
	// handshake with the signing application failed. It is terminal for a session.
	ErrTransportInit = errors.New("ledger: transport initialization failed")

	// ErrDeviceLocked is reported by a device while another operation is in flight on it.
	ErrDeviceLocked = errors.New("ledger: device locked")

	// ErrDevice is any other device-reported failure (rejected on device, wrong app, malformed request).
	ErrDevice = errors.New("ledger: device error")

	// ErrTimeout is returned when the attempt cap is exhausted or the overall deadline elapsed.
	ErrTimeout = errors.New("ledger: timeout")

	// ErrUnsupported is returned by operations this signer intentionally does not implement.
	ErrUnsupported = errors.New("ledger: operation not supported")
)

// IsLocked reports whether err was classified as a transient device lock.
func IsLocked(err error) bool {
	return errors.Is(err, ErrDeviceLocked)
}
