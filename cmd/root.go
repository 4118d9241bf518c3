package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/cmd/emulator"
	"github/chapool/ledger-signer/cmd/env"
	"github/chapool/ledger-signer/cmd/ledger"
	"github/chapool/ledger-signer/cmd/probe"
	"github/chapool/ledger-signer/cmd/server"
	"github/chapool/ledger-signer/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "app",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Signs legacy EVM transactions on a hardware signing device.
Requires configuration through ENV (prefix %s_).`, config.ModuleName, config.EnvPrefix),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		ledger.NewAddress(),
		ledger.NewDecode(),
		ledger.NewSend(),
		ledger.NewSign(),
		emulator.New(),
		env.New(),
		probe.New(),
		server.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
