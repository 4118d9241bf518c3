package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/ledger-signer/internal/wallet/address"
)

func TestParseDerivationPath(t *testing.T) {
	indices, err := address.ParseDerivationPath("m/44'/60'/0'/0/0")
	require.NoError(t, err)
	assert.Equal(t, []uint32{2147483692, 2147483708, 2147483648, 0, 0}, indices)

	indices, err = address.ParseDerivationPath(address.AccountPath(2, 7))
	require.NoError(t, err)
	assert.Equal(t, []uint32{2147483692, 2147483708, 2147483650, 0, 7}, indices)
}

func TestParseDerivationPathInvalid(t *testing.T) {
	for _, path := range []string{"", "m", "44'/60'", "m/44'/x/0", "m/2147483648", "m/-1"} {
		_, err := address.ParseDerivationPath(path)
		assert.Error(t, err, path)
	}
}

func TestDeriveKeyIsStable(t *testing.T) {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}

	first, err := address.DeriveKey(seed, "m/44'/60'/0'/0/0")
	require.NoError(t, err)

	second, err := address.DeriveKey(seed, "m/44'/60'/0'/0/0")
	require.NoError(t, err)
	assert.Equal(t, address.FromKey(first), address.FromKey(second))

	other, err := address.DeriveKey(seed, "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	assert.NotEqual(t, address.FromKey(first), address.FromKey(other))
}
