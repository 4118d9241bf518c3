package emulator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/ledger/bridge"
	"github/chapool/ledger-signer/internal/ledger/emulator"
	"github/chapool/ledger-signer/internal/util/command"
	"golang.org/x/term"
)

const (
	listenFlag         = "listen"
	keystoreFlag       = "keystore"
	promptPassphrase   = "prompt-passphrase"
	readHeaderTimeout  = 5 * time.Second
	serveShutdownDelay = 5 * time.Second
)

func newServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves a software signing device over the bridge protocol",
		Long: `Starts an in-memory signing device and exposes it over the JSON-RPC bridge
protocol, so that the signer (LEDGER_SIGNER_LEDGER_TYPE=bridge) can be used
without hardware. For development only: the seed is kept in memory.

The mnemonic is decrypted from the keystore file (--keystore or
LEDGER_SIGNER_EMULATOR_KEYSTORE_FILE, see "emulator keystore"), otherwise read from
LEDGER_SIGNER_EMULATOR_MNEMONIC, falling back to the well known BIP-39 test mnemonic.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			command.ConfigureLogger(cfg.Logger)

			listen, err := cmd.Flags().GetString(listenFlag)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Emulator.ListenAddress
			}

			prompt, err := cmd.Flags().GetBool(promptPassphrase)
			if err != nil {
				return err
			}

			keystoreFile, err := cmd.Flags().GetString(keystoreFlag)
			if err != nil {
				return err
			}
			if keystoreFile == "" {
				keystoreFile = cfg.Emulator.KeystoreFile
			}

			keystorePassword := cfg.Emulator.KeystorePassword
			if keystoreFile != "" && keystorePassword == "" {
				if keystorePassword, err = readSecret(cmd, "Enter keystore password: "); err != nil {
					return err
				}
			}

			passphrase := cfg.Emulator.Passphrase
			if prompt {
				if passphrase, err = readSecret(cmd, "Enter BIP-39 passphrase: "); err != nil {
					return err
				}
			}

			emu, err := emulator.New(emulator.Config{
				Mnemonic:         cfg.Emulator.Mnemonic,
				Passphrase:       passphrase,
				KeystoreFile:     keystoreFile,
				KeystorePassword: keystorePassword,
				Version:          cfg.Emulator.Version,
				ConfirmDelay:     cfg.Emulator.ConfirmDelay,
			})
			if err != nil {
				return err
			}
			defer emu.Wipe()

			if keystoreFile == "" && cfg.Emulator.Mnemonic == "" {
				log.Warn().Msg("Using the public test mnemonic, never send funds to its addresses")
			}

			return serve(cmd.Context(), listen, emu)
		},
	}

	cmd.Flags().String(listenFlag, "", "Listen address, defaults to LEDGER_SIGNER_EMULATOR_LISTEN_ADDRESS.")
	cmd.Flags().String(keystoreFlag, "", "Keystore file holding the encrypted mnemonic.")
	cmd.Flags().Bool(promptPassphrase, false, "Prompt for the BIP-39 passphrase instead of reading it from ENV.")

	return cmd
}

func serve(ctx context.Context, listen string, emu *emulator.Emulator) error {
	rpcServer, err := bridge.NewServer(emu)
	if err != nil {
		return err
	}
	defer rpcServer.Stop()

	srv := &http.Server{
		Addr:              listen,
		Handler:           rpcServer,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Str("listen_address", listen).Msg("Emulator bridge listening")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serveShutdownDelay)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // stdin descriptor fits into int
	if !term.IsTerminal(fd) {
		return "", errors.New("password prompt requires a terminal")
	}

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(secret), nil
}
