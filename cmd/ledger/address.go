package ledger

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/util/command"
)

func NewAddress() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Prints the device address of the configured derivation path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				addr, err := s.Signer.GetAddress(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), addr)
				return nil
			})
		},
	}
}
