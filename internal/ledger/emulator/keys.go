package emulator

import (
	"crypto/ecdsa"
	"sync"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/wallet/address"
)

// seedVault holds the BIP-39 seed of the emulated device.
type seedVault struct {
	mu   sync.RWMutex
	seed []byte
}

func newSeedVault(mnemonic string, passphrase string) (*seedVault, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mnemonic")
	}

	return &seedVault{seed: seed}, nil
}

func (v *seedVault) initialized() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.seed != nil
}

// deriveKey derives the key at path.
// WARNING: Caller must not persist or log the returned key
func (v *seedVault) deriveKey(path string) (*ecdsa.PrivateKey, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.seed == nil {
		return nil, errors.Wrap(ledger.ErrDevice, "device wiped")
	}

	key, err := address.DeriveKey(v.seed, path)
	if err != nil {
		return nil, errors.Wrap(ledger.ErrDevice, err.Error())
	}

	return key, nil
}

// clear zeroes the seed, the vault can not be used afterwards.
func (v *seedVault) clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.seed {
		v.seed[i] = 0
	}
	v.seed = nil
}
