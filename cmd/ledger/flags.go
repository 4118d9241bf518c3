package ledger

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/internal/wallet/codec"
)

const (
	chainIDFlag  = "chain-id"
	nonceFlag    = "nonce"
	gasPriceFlag = "gas-price"
	gasLimitFlag = "gas-limit"
	toFlag       = "to"
	valueFlag    = "value"
	dataFlag     = "data"
	populateFlag = "populate"
)

func addTransactionFlags(cmd *cobra.Command) {
	cmd.Flags().String(chainIDFlag, "", "Chain id, decimal or 0x hex. Omit for pre EIP-155 signing.")
	cmd.Flags().String(nonceFlag, "", "Nonce, decimal or 0x hex.")
	cmd.Flags().String(gasPriceFlag, "", "Gas price in wei, decimal or 0x hex.")
	cmd.Flags().String(gasLimitFlag, "", "Gas limit, decimal or 0x hex.")
	cmd.Flags().String(toFlag, "", "Recipient address. Omit for contract creation.")
	cmd.Flags().String(valueFlag, "", "Value in wei, decimal or 0x hex.")
	cmd.Flags().String(dataFlag, "", "0x prefixed call data.")
	cmd.Flags().Bool(populateFlag, false, "Fill absent chain id, nonce, gas price and gas limit from the RPC node.")
}

// transactionFromFlags builds the request from the flags. Flags left empty stay absent.
func transactionFromFlags(cmd *cobra.Command) (codec.TransactionRequest, error) {
	var req codec.TransactionRequest

	var err error
	if req.ChainID, err = quantityFlag(cmd, chainIDFlag); err != nil {
		return req, err
	}
	if req.Nonce, err = quantityFlag(cmd, nonceFlag); err != nil {
		return req, err
	}
	if req.GasPrice, err = quantityFlag(cmd, gasPriceFlag); err != nil {
		return req, err
	}
	if req.GasLimit, err = quantityFlag(cmd, gasLimitFlag); err != nil {
		return req, err
	}

	value, err := quantityFlag(cmd, valueFlag)
	if err != nil {
		return req, err
	}
	if value != nil {
		req.Value = codec.Of(value)
	}

	to, err := cmd.Flags().GetString(toFlag)
	if err != nil {
		return req, err
	}
	if to = strings.TrimSpace(to); to != "" {
		if !common.IsHexAddress(to) {
			return req, errors.Errorf("invalid --%s address %q", toFlag, to)
		}
		req.To = codec.Of(common.HexToAddress(to))
	}

	data, err := cmd.Flags().GetString(dataFlag)
	if err != nil {
		return req, err
	}
	if data != "" {
		if req.Data, err = hexutil.Decode(data); err != nil {
			return req, errors.Wrapf(err, "invalid --%s", dataFlag)
		}
	}

	return req, nil
}

func quantityFlag(cmd *cobra.Command, name string) (*big.Int, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}

	value, err := codec.ParseQuantity(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --%s", name)
	}

	return value, nil
}
