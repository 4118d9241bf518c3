package signer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/ledger-signer/internal/wallet/codec"
)

var (
	// ErrMissingProvider is returned by SendTransaction on a signer without provider.
	ErrMissingProvider = errors.New("signer: missing provider")

	// ErrSenderMismatch is returned when the signed transaction does not recover to the device address.
	ErrSenderMismatch = errors.New("signer: recovered sender does not match device address")
)

// Signer provides address derivation and transaction signing backed by a hardware device
type Signer interface {
	// GetAddress returns the address of the key at the signer's derivation path
	GetAddress(ctx context.Context) (string, error)

	// SignMessage is not supported and always fails with ledger.ErrUnsupported
	SignMessage(ctx context.Context, message []byte) (string, error)

	// SignTransaction signs req on the device and returns the 0x prefixed raw transaction
	SignTransaction(ctx context.Context, req codec.TransactionRequest) (string, error)

	// SendTransaction signs req and hands the raw transaction to the provider
	SendTransaction(ctx context.Context, req codec.TransactionRequest) (common.Hash, error)

	// Connect returns a new signer bound to provider with its own device session
	Connect(provider Provider) Signer
}

// Provider broadcasts signed transactions
type Provider interface {
	SendTransaction(ctx context.Context, signedTx string) (common.Hash, error)
}

// StateReader is implemented by providers able to fill in missing transaction fields
type StateReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// TransactionObserver is optionally implemented by the ledger.Observer passed to WithObserver
type TransactionObserver interface {
	TransactionSigned()
	BroadcastFailed()
}
