package ledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/util/command"
)

func NewSend() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Signs a legacy transaction on the device and broadcasts it",
		Long: `Signs a legacy transaction on the device and broadcasts it through the
configured RPC nodes (LEDGER_SIGNER_RPC_URLS). An absent --value is sent as zero.
Prints the transaction hash.`,
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

				hash, err := s.Signer.SendTransaction(ctx, req)
				if err != nil {
					return err
				}

				log.Info().Str("tx_hash", hash.Hex()).Msg("Transaction sent")

				fmt.Fprintln(cmd.OutOrStdout(), hash.Hex())
				return nil
			})
		},
	}

	addTransactionFlags(cmd)

	return cmd
}
