package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
)

// ParseDerivationPath parses a BIP-32 path string into indices.
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func ParseDerivationPath(path string) ([]uint32, error) {
	if !strings.HasPrefix(path, "m/") && path != "m" {
		return nil, fmt.Errorf("invalid derivation path: %s", path)
	}

	parts := strings.Split(strings.TrimPrefix(path, "m"), "/")

	indices := make([]uint32, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}

		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		if hardened {
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || uint32(index) >= bip32.FirstHardenedChild {
			return nil, errors.Errorf("invalid path segment %q in %s", part, path)
		}

		if hardened {
			index += uint64(bip32.FirstHardenedChild)
		}

		indices = append(indices, uint32(index))
	}

	if len(indices) == 0 {
		return nil, fmt.Errorf("empty derivation path: %s", path)
	}

	return indices, nil
}

// AccountPath returns the BIP-44 path for an account and address index.
// Format: m/44'/60'/{account}'/0/{index}
func AccountPath(account, index uint32) string {
	return fmt.Sprintf("m/44'/60'/%d'/0/%d", account, index)
}
