package bridge

import (
	"context"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github/chapool/ledger-signer/internal/ledger"
)

type rpcError struct {
	code    int
	message string
}

func (e *rpcError) Error() string  { return e.message }
func (e *rpcError) ErrorCode() int { return e.code }

// NewServer exposes device over JSON-RPC in the "device" namespace.
// The returned server is an http.Handler.
func NewServer(device ledger.Device) (*rpc.Server, error) {
	server := rpc.NewServer()
	if err := server.RegisterName("device", &service{device: device}); err != nil {
		return nil, errors.Wrap(err, "failed to register device service")
	}

	return server, nil
}

type service struct {
	device ledger.Device
}

func (s *service) GetVersion(ctx context.Context) (string, error) {
	version, err := s.device.GetVersion(ctx)
	return version, toRPCError(err)
}

func (s *service) GetAddress(ctx context.Context, path string) (string, error) {
	addr, err := s.device.GetAddress(ctx, path)
	return addr, toRPCError(err)
}

func (s *service) SignTransaction(ctx context.Context, accountIndex, addressIndex uint32, unsignedHex string) (*ledger.Signature, error) {
	sig, err := s.device.SignTransaction(ctx, accountIndex, addressIndex, unsignedHex)
	return sig, toRPCError(err)
}

// toRPCError must return an unwrapped rpc.Error for the code to reach the client.
func toRPCError(err error) error {
	switch {
	case err == nil:
		return nil
	case ledger.IsLocked(err):
		return &rpcError{code: CodeDeviceLocked, message: err.Error()}
	default:
		return &rpcError{code: CodeDeviceError, message: err.Error()}
	}
}
