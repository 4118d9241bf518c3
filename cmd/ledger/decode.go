package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/internal/wallet/codec"
)

func NewDecode() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <signed-tx>",
		Short: "Decodes a raw signed legacy transaction",
		Long: `Decodes a 0x prefixed raw signed legacy transaction offline and prints
its fields, hash and recovered sender. No device or RPC node is contacted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hexutil.Decode(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid signed transaction hex")
			}

			base, sig, err := codec.DecodeSigned(raw)
			if err != nil {
				return err
			}

			sender, err := codec.Sender(raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Hash: %s\n", codec.Hash(raw).Hex())
			fmt.Fprintf(out, "From: %s\n", sender.Hex())
			if base.To != nil {
				fmt.Fprintf(out, "To: %s\n", base.To.Hex())
			} else {
				fmt.Fprintln(out, "To: Contract Creation")
			}
			if base.ChainID != nil {
				fmt.Fprintf(out, "Chain ID: %s\n", base.ChainID)
			} else {
				fmt.Fprintln(out, "Chain ID: none (pre EIP-155)")
			}
			if base.Nonce != nil {
				fmt.Fprintf(out, "Nonce: %d\n", *base.Nonce)
			}
			fmt.Fprintf(out, "Gas Price: %s wei\n", base.GasPrice)
			fmt.Fprintf(out, "Gas Limit: %s\n", base.GasLimit)
			fmt.Fprintf(out, "Value: %s wei\n", base.Value)
			fmt.Fprintf(out, "Data: %s\n", hexutil.Encode(base.Data))
			fmt.Fprintf(out, "V: %s\n", sig.V)

			return nil
		},
	}
}
