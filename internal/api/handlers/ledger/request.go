package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github/chapool/ledger-signer/internal/types"
	"github/chapool/ledger-signer/internal/wallet/codec"
)

// transactionRequest converts a validated payload. Absent fields stay absent.
func transactionRequest(body *types.TransactionPayload) (codec.TransactionRequest, error) {
	var (
		req codec.TransactionRequest
		err error
	)

	if req.ChainID, err = codec.ParseQuantity(swag.StringValue(body.ChainID)); err != nil {
		return req, errors.Wrap(err, "chain_id")
	}

	if req.GasLimit, err = codec.ParseQuantity(swag.StringValue(body.GasLimit)); err != nil {
		return req, errors.Wrap(err, "gas_limit")
	}

	if req.GasPrice, err = codec.ParseQuantity(swag.StringValue(body.GasPrice)); err != nil {
		return req, errors.Wrap(err, "gas_price")
	}

	if req.Nonce, err = codec.ParseQuantity(swag.StringValue(body.Nonce)); err != nil {
		return req, errors.Wrap(err, "nonce")
	}

	value, err := codec.ParseQuantity(swag.StringValue(body.Value))
	if err != nil {
		return req, errors.Wrap(err, "value")
	}
	if value != nil {
		req.Value = codec.Of(value)
	}

	if to := strings.TrimSpace(swag.StringValue(body.To)); to != "" {
		req.To = codec.Of(common.HexToAddress(to))
	}

	if data := swag.StringValue(body.Data); data != "" {
		if req.Data, err = hexutil.Decode(data); err != nil {
			return req, errors.Wrap(codec.ErrInvalidQuantity, "data")
		}
	}

	return req, nil
}
