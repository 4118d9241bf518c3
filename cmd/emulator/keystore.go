package emulator

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/ledger/emulator"
)

const (
	outFlag      = "out"
	generateFlag = "generate"
	entropyBits  = 256
)

func newKeystore() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keystore",
		Short: "Encrypts the emulator mnemonic into a keystore file",
		Long: `Writes a keystore v3 file holding the mnemonic from LEDGER_SIGNER_EMULATOR_MNEMONIC,
or a freshly generated one with --generate. The password is read from
LEDGER_SIGNER_EMULATOR_KEYSTORE_PASSWORD or prompted for.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			out, err := cmd.Flags().GetString(outFlag)
			if err != nil {
				return err
			}
			if out == "" {
				return errors.New("--out is required")
			}

			generate, err := cmd.Flags().GetBool(generateFlag)
			if err != nil {
				return err
			}

			mnemonic := cfg.Emulator.Mnemonic
			if generate {
				if mnemonic, err = newMnemonic(); err != nil {
					return err
				}
			}
			if mnemonic == "" {
				return errors.New("no mnemonic configured, set LEDGER_SIGNER_EMULATOR_MNEMONIC or pass --generate")
			}

			password := cfg.Emulator.KeystorePassword
			if password == "" {
				if password, err = readNewPassword(cmd); err != nil {
					return err
				}
			}

			return writeKeystore(cmd, out, mnemonic, password, emulator.DefaultScryptParams())
		},
	}

	cmd.Flags().String(outFlag, "", "Keystore file to create.")
	cmd.Flags().Bool(generateFlag, false, "Generate a new 24 word mnemonic instead of using ENV.")

	return cmd
}

func writeKeystore(cmd *cobra.Command, out string, mnemonic string, password string, params emulator.ScryptParams) error {
	// validates the mnemonic and reports the address it will serve
	emu, err := emulator.New(emulator.Config{Mnemonic: mnemonic})
	if err != nil {
		return err
	}
	defer emu.Wipe()

	addr, err := emu.GetAddress(cmd.Context(), ledger.DefaultPath)
	if err != nil {
		return err
	}

	ks, err := emulator.EncryptMnemonic(mnemonic, password, params)
	if err != nil {
		return err
	}

	if err := emulator.WriteKeystore(out, ks); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Keystore: %s\nAddress:  %s\n", out, addr)

	return nil
}

func newMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}

	return bip39.NewMnemonic(entropy)
}

func readNewPassword(cmd *cobra.Command) (string, error) {
	password, err := readSecret(cmd, "Enter keystore password: ")
	if err != nil {
		return "", err
	}

	repeated, err := readSecret(cmd, "Repeat keystore password: ")
	if err != nil {
		return "", err
	}

	if password != repeated {
		return "", errors.New("passwords do not match")
	}

	return password, nil
}
