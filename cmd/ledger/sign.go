package ledger

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/util/command"
)

func NewSign() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Signs a legacy transaction on the device",
		Long: `Signs a legacy transaction on the device and prints the 0x prefixed
raw signed transaction. The user confirms the transaction on the device.`,
		Example: `app sign --chain-id 1 --nonce 9 --gas-price 20000000000 --gas-limit 21000 \
  --to 0x3535353535353535353535353535353535353535 --value 1000000000000000000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := transactionFromFlags(cmd)
			if err != nil {
				return err
			}

			populate, err := cmd.Flags().GetBool(populateFlag)
			if err != nil {
				return err
			}

			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				if populate {
					if req, err = s.Signer.PopulateTransaction(ctx, req); err != nil {
						return err
					}
				}

				signed, err := s.Signer.SignTransaction(ctx, req)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), signed)
				return nil
			})
		},
	}

	addTransactionFlags(cmd)

	return cmd
}
