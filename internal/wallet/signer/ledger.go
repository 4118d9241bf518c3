package signer

import (
	"context"
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/util"
	"github/chapool/ledger-signer/internal/wallet/codec"
)

// GetAddress asks the device for the address at the signer's path. No overall timeout applies.
func (l *Ledger) GetAddress(ctx context.Context) (string, error) {
	addr, err := ledger.Do(ctx, l.exec, "get_address", func(ctx context.Context, device ledger.Device) (string, error) {
		return device.GetAddress(ctx, l.path)
	}, 0)
	if err != nil {
		return "", errors.Wrap(err, "failed to get address")
	}

	return addr, nil
}

// SignMessage always fails: message signing is not implemented by the device integration.
func (l *Ledger) SignMessage(_ context.Context, _ []byte) (string, error) {
	return "", errors.Wrap(ledger.ErrUnsupported, "sign message")
}

// SignTransaction resolves req, has the device sign its unsigned encoding and
// returns the 0x prefixed signed transaction.
func (l *Ledger) SignTransaction(ctx context.Context, req codec.TransactionRequest) (string, error) {
	log := util.LogFromContext(ctx)

	req, err := codec.Resolve(ctx, req)
	if err != nil {
		return "", err
	}

	base, err := codec.BuildBase(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to build transaction")
	}

	unsigned, err := codec.SerializeUnsigned(base)
	if err != nil {
		return "", err
	}

	unsignedHex := hex.EncodeToString(unsigned)

	sig, err := ledger.Do(ctx, l.exec, "sign_transaction", func(ctx context.Context, device ledger.Device) (*ledger.Signature, error) {
		return device.SignTransaction(ctx, signAccountIndex, signAddressIndex, unsignedHex)
	}, l.settings.signTimeout)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign transaction")
	}

	if sig == nil {
		return "", errors.Wrap(ledger.ErrDevice, "device returned no signature")
	}

	signed, err := codec.SerializeSigned(base, *sig)
	if err != nil {
		return "", errors.Wrap(err, "failed to assemble signed transaction")
	}

	if l.settings.verifySender {
		if err := l.verifySender(ctx, signed); err != nil {
			return "", err
		}
	}

	if observer, ok := l.transactionObserver(); ok {
		observer.TransactionSigned()
	}

	log.Debug().
		Str("tx_hash", codec.Hash(signed).Hex()).
		Str("path", l.path).
		Msg("Transaction signed on device")

	return hexutil.Encode(signed), nil
}

// SendTransaction resolves a deferred recipient, defaults an absent value to zero,
// signs and passes the raw transaction to the provider. The provider result is
// returned as is.
func (l *Ledger) SendTransaction(ctx context.Context, req codec.TransactionRequest) (common.Hash, error) {
	if l.provider == nil {
		return common.Hash{}, ErrMissingProvider
	}

	if req.To.IsDeferred() {
		to, err := req.To.Resolve(ctx)
		if err != nil {
			return common.Hash{}, errors.Wrap(err, "failed to resolve to")
		}
		req.To = to
	}

	if !req.Value.IsSet() {
		req.Value = codec.Of(new(big.Int))
	}

	signed, err := l.SignTransaction(ctx, req)
	if err != nil {
		return common.Hash{}, err
	}

	hash, err := l.provider.SendTransaction(ctx, signed)
	if err != nil {
		if observer, ok := l.transactionObserver(); ok {
			observer.BroadcastFailed()
		}
		return hash, err
	}

	return hash, nil
}

// PopulateTransaction fills absent chain id, nonce, gas price and gas limit from the
// provider when it implements StateReader. Other providers leave req unchanged.
func (l *Ledger) PopulateTransaction(ctx context.Context, req codec.TransactionRequest) (codec.TransactionRequest, error) {
	reader, ok := l.provider.(StateReader)
	if !ok {
		return req, nil
	}

	req, err := codec.Resolve(ctx, req)
	if err != nil {
		return req, err
	}

	if req.ChainID == nil {
		if req.ChainID, err = reader.ChainID(ctx); err != nil {
			return req, err
		}
	}

	if req.GasPrice == nil {
		if req.GasPrice, err = reader.SuggestGasPrice(ctx); err != nil {
			return req, err
		}
	}

	if req.Nonce != nil && req.GasLimit != nil {
		return req, nil
	}

	addr, err := l.GetAddress(ctx)
	if err != nil {
		return req, err
	}
	from := common.HexToAddress(addr)

	if req.Nonce == nil {
		nonce, err := reader.PendingNonceAt(ctx, from)
		if err != nil {
			return req, err
		}
		req.Nonce = new(big.Int).SetUint64(nonce)
	}

	if req.GasLimit == nil {
		msg := ethereum.CallMsg{From: from, Data: req.Data}
		if to, ok := req.To.Get(); ok {
			msg.To = &to
		}
		if value, ok := req.Value.Get(); ok {
			msg.Value = value
		}

		gas, err := reader.EstimateGas(ctx, msg)
		if err != nil {
			return req, err
		}
		req.GasLimit = new(big.Int).SetUint64(gas)
	}

	return req, nil
}

func (l *Ledger) verifySender(ctx context.Context, signed []byte) error {
	sender, err := codec.Sender(signed)
	if err != nil {
		return err
	}

	addr, err := l.GetAddress(ctx)
	if err != nil {
		return err
	}

	if sender != common.HexToAddress(addr) {
		return errors.Wrapf(ErrSenderMismatch, "recovered %s, device %s", sender.Hex(), addr)
	}

	return nil
}
