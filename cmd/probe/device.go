package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/util/command"
)

const timeoutFlag = "timeout"

func newDevice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Runs the device handshake and reads the configured address",
		Long: `Opens the configured transport, performs the version handshake and
asks the device for the address at the configured derivation path.
Exits non-zero if the device cannot be reached.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err
			}

			timeout, err := cmd.Flags().GetDuration(timeoutFlag)
			if err != nil {
				return err
			}

			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()

				start := time.Now()
				addr, err := s.Signer.GetAddress(ctx)
				if err != nil {
					log.Error().Err(err).Str("state", s.Signer.State().String()).Msg("Device probe failed")
					return err
				}

				if verbose {
					log.Info().
						Str("type", s.Signer.Type()).
						Str("path", s.Signer.Path()).
						Str("version", s.Signer.Version()).
						Dur("duration", time.Since(start)).
						Msg("Device probe succeeded")
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", s.Signer.Version(), addr)
				return nil
			})
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")
	cmd.Flags().Duration(timeoutFlag, 10*time.Second, "Give up waiting for the device after this duration.")

	return cmd
}
