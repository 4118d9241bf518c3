// Package codec builds, serializes and reassembles legacy (EIP-155) Ethereum
// transactions around a signature produced by an external device.
package codec

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github/chapool/ledger-signer/internal/ledger"
)

const maxSignatureWordBits = 256

var (
	big27 = big.NewInt(27)
	big35 = big.NewInt(35)
)

// Resolve resolves the deferred To and Value fields of req.
func Resolve(ctx context.Context, req TransactionRequest) (TransactionRequest, error) {
	to, err := req.To.Resolve(ctx)
	if err != nil {
		return TransactionRequest{}, errors.Wrap(err, "failed to resolve to")
	}

	value, err := req.Value.Resolve(ctx)
	if err != nil {
		return TransactionRequest{}, errors.Wrap(err, "failed to resolve value")
	}

	req.To = to
	req.Value = value

	return req, nil
}

// BuildBase copies the request fields into a BaseTransaction, normalizing the nonce
// to a plain integer. Absent fields stay absent.
func BuildBase(req TransactionRequest) (BaseTransaction, error) {
	if req.To.IsDeferred() {
		return BaseTransaction{}, errors.Wrap(ErrUnresolved, "to")
	}
	if req.Value.IsDeferred() {
		return BaseTransaction{}, errors.Wrap(ErrUnresolved, "value")
	}

	base := BaseTransaction{
		ChainID:  copyBig(req.ChainID),
		GasLimit: copyBig(req.GasLimit),
		GasPrice: copyBig(req.GasPrice),
	}

	if req.Data != nil {
		base.Data = common.CopyBytes(req.Data)
	}

	if to, ok := req.To.Get(); ok {
		base.To = &to
	}

	if value, ok := req.Value.Get(); ok {
		base.Value = copyBig(value)
	}

	if req.Nonce != nil {
		if req.Nonce.Sign() < 0 || !req.Nonce.IsUint64() {
			return BaseTransaction{}, errors.Wrapf(ErrInvalidQuantity, "nonce %s out of range", req.Nonce)
		}
		nonce := req.Nonce.Uint64()
		base.Nonce = &nonce
	}

	return base, nil
}

// SerializeUnsigned returns the RLP payload the device signs over:
// [nonce, gasPrice, gasLimit, to, value, data] plus [chainId, 0, 0] when a chain id is set.
func SerializeUnsigned(base BaseTransaction) ([]byte, error) {
	fields := baseFields(base)
	if hasChainID(base) {
		fields = append(fields, base.ChainID, uint(0), uint(0))
	}

	payload, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode unsigned transaction")
	}

	return payload, nil
}

// SerializeSigned returns the RLP encoding of base followed by the signature.
// The output only depends on base and sig.
func SerializeSigned(base BaseTransaction, sig ledger.Signature) ([]byte, error) {
	values, err := NormalizeSignature(base, sig)
	if err != nil {
		return nil, err
	}

	fields := append(baseFields(base), values.V, values.R, values.S)

	payload, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode signed transaction")
	}

	return payload, nil
}

// NormalizeSignature converts the device signature components into on-chain integers.
// The recovery parity is taken from V, which devices may return as 0/1, 27/28 or as a
// (possibly single byte truncated) EIP-155 value; V is then recomputed for the chain id.
func NormalizeSignature(base BaseTransaction, sig ledger.Signature) (SignatureValues, error) {
	rawV, err := parseHex(sig.V)
	if err != nil {
		return SignatureValues{}, errors.Wrap(err, "invalid signature v")
	}

	r, err := parseHex(sig.R)
	if err != nil {
		return SignatureValues{}, errors.Wrap(err, "invalid signature r")
	}

	s, err := parseHex(sig.S)
	if err != nil {
		return SignatureValues{}, errors.Wrap(err, "invalid signature s")
	}

	if r.BitLen() > maxSignatureWordBits || s.BitLen() > maxSignatureWordBits {
		return SignatureValues{}, errors.New("signature component exceeds 32 bytes")
	}

	var parity uint
	if rawV.IsUint64() && rawV.Uint64() <= 1 {
		parity = uint(rawV.Uint64())
	} else {
		parity = 1 - rawV.Bit(0)
	}

	v := new(big.Int).SetUint64(uint64(parity))
	if hasChainID(base) {
		v.Add(v, big35)
		v.Add(v, new(big.Int).Lsh(base.ChainID, 1))
	} else {
		v.Add(v, big27)
	}

	return SignatureValues{V: v, R: r, S: s}, nil
}

// DecodeSigned parses a signed legacy transaction produced by SerializeSigned.
// Absent fields come back as their zero values.
func DecodeSigned(raw []byte) (BaseTransaction, SignatureValues, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return BaseTransaction{}, SignatureValues{}, errors.Wrap(err, "failed to decode signed transaction")
	}

	if tx.Type() != types.LegacyTxType {
		return BaseTransaction{}, SignatureValues{}, errors.Errorf("unexpected transaction type %d", tx.Type())
	}

	nonce := tx.Nonce()
	base := BaseTransaction{
		Data:     tx.Data(),
		GasLimit: new(big.Int).SetUint64(tx.Gas()),
		GasPrice: tx.GasPrice(),
		Nonce:    &nonce,
		To:       tx.To(),
		Value:    tx.Value(),
	}

	if tx.Protected() {
		base.ChainID = tx.ChainId()
	}

	v, r, s := tx.RawSignatureValues()

	return base, SignatureValues{V: v, R: r, S: s}, nil
}

// Hash returns the transaction hash of a signed legacy transaction.
func Hash(signed []byte) common.Hash {
	return crypto.Keccak256Hash(signed)
}

// Sender recovers the signing address of a signed legacy transaction.
func Sender(signed []byte) (common.Address, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(signed); err != nil {
		return common.Address{}, errors.Wrap(err, "failed to decode signed transaction")
	}

	var signer types.Signer = types.HomesteadSigner{}
	if tx.Protected() {
		signer = types.NewEIP155Signer(tx.ChainId())
	}

	sender, err := types.Sender(signer, tx)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to recover sender")
	}

	return sender, nil
}

func baseFields(base BaseTransaction) []interface{} {
	var nonce uint64
	if base.Nonce != nil {
		nonce = *base.Nonce
	}

	to := []byte{}
	if base.To != nil {
		to = base.To.Bytes()
	}

	data := base.Data
	if data == nil {
		data = []byte{}
	}

	return []interface{}{
		nonce,
		bigOrZero(base.GasPrice),
		bigOrZero(base.GasLimit),
		to,
		bigOrZero(base.Value),
		data,
	}
}

func hasChainID(base BaseTransaction) bool {
	return base.ChainID != nil && base.ChainID.Sign() > 0
}

func bigOrZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value
}

func copyBig(value *big.Int) *big.Int {
	if value == nil {
		return nil
	}
	return new(big.Int).Set(value)
}
