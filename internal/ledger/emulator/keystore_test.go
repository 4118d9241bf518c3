package emulator_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/ledger/emulator"
)

const otherMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"

func TestKeystoreRoundTrip(t *testing.T) {
	ks, err := emulator.EncryptMnemonic(otherMnemonic, "secret", emulator.LightScryptParams())
	require.NoError(t, err)
	assert.Equal(t, 3, ks.Version)
	assert.Equal(t, "scrypt", ks.Crypto.KDF)
	assert.NotContains(t, ks.Crypto.Ciphertext, "legal")

	mnemonic, err := emulator.DecryptMnemonic(ks, "secret")
	require.NoError(t, err)
	assert.Equal(t, otherMnemonic, mnemonic)

	_, err = emulator.DecryptMnemonic(ks, "wrong")
	require.ErrorIs(t, err, emulator.ErrInvalidPassword)
}

func TestEmulatorFromKeystoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emulator.json")

	ks, err := emulator.EncryptMnemonic(otherMnemonic, "secret", emulator.LightScryptParams())
	require.NoError(t, err)
	require.NoError(t, emulator.WriteKeystore(path, ks))

	// never overwrite
	require.Error(t, emulator.WriteKeystore(path, ks))

	fromFile, err := emulator.New(emulator.Config{KeystoreFile: path, KeystorePassword: "secret"})
	require.NoError(t, err)

	fromMnemonic, err := emulator.New(emulator.Config{Mnemonic: otherMnemonic})
	require.NoError(t, err)

	a, err := fromFile.GetAddress(t.Context(), ledger.DefaultPath)
	require.NoError(t, err)
	b, err := fromMnemonic.GetAddress(t.Context(), ledger.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, b, a)
	assert.NotEqual(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", a)

	_, err = emulator.New(emulator.Config{KeystoreFile: path, KeystorePassword: "wrong"})
	require.ErrorIs(t, err, emulator.ErrInvalidPassword)

	_, err = emulator.New(emulator.Config{KeystoreFile: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
}
