package codec

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	// ErrUnresolved is returned when a deferred field reaches serialization.
	ErrUnresolved = errors.New("transaction field not resolved")

	// ErrInvalidQuantity is returned for malformed or out of range numeric fields.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Lazy holds a concrete value, a deferred lookup, or nothing.
type Lazy[T any] struct {
	value   T
	present bool
	resolve func(ctx context.Context) (T, error)
}

// Of returns a concrete Lazy.
func Of[T any](value T) Lazy[T] {
	return Lazy[T]{value: value, present: true}
}

// Deferred returns a Lazy resolved by calling fn.
func Deferred[T any](fn func(ctx context.Context) (T, error)) Lazy[T] {
	return Lazy[T]{resolve: fn}
}

// IsSet reports whether a value or a lookup was provided.
func (l Lazy[T]) IsSet() bool {
	return l.present || l.resolve != nil
}

// IsDeferred reports whether the value still has to be resolved.
func (l Lazy[T]) IsDeferred() bool {
	return !l.present && l.resolve != nil
}

// Get returns the concrete value, ok is false if absent or still deferred.
func (l Lazy[T]) Get() (T, bool) {
	return l.value, l.present
}

// Resolve runs the deferred lookup if any. Concrete and absent values are returned unchanged.
func (l Lazy[T]) Resolve(ctx context.Context) (Lazy[T], error) {
	if !l.IsDeferred() {
		return l, nil
	}

	value, err := l.resolve(ctx)
	if err != nil {
		return Lazy[T]{}, err
	}

	return Of(value), nil
}

// TransactionRequest is a transaction as supplied by callers.
// Nil pointers and unset Lazy fields are absent.
type TransactionRequest struct {
	ChainID  *big.Int
	Data     []byte
	GasLimit *big.Int
	GasPrice *big.Int
	Nonce    *big.Int
	To       Lazy[common.Address]
	Value    Lazy[*big.Int]
}

// BaseTransaction holds the concrete unsigned fields of a legacy transaction.
type BaseTransaction struct {
	ChainID  *big.Int
	Data     []byte
	GasLimit *big.Int
	GasPrice *big.Int
	Nonce    *uint64
	To       *common.Address
	Value    *big.Int
}

// SignatureValues are the normalized signature integers as encoded on chain.
type SignatureValues struct {
	V *big.Int
	R *big.Int
	S *big.Int
}
