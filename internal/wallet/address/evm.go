package address

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
)

// DeriveKey derives the secp256k1 private key at path from a BIP-39 seed.
// WARNING: Caller must not persist or log the returned key
func DeriveKey(seed []byte, path string) (*ecdsa.PrivateKey, error) {
	indices, err := ParseDerivationPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse derivation path")
	}

	// Create master key from seed
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	// Derive key step by step
	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	privateKey, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	return privateKey, nil
}

// FromKey returns the checksummed EVM address of a private key.
func FromKey(key *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(key.PublicKey).Hex()
}
