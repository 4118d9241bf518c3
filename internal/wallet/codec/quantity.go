package codec

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

// ParseQuantity parses a decimal or 0x prefixed hex quantity.
// An empty string yields nil (absent).
func ParseQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil //nolint:nilnil // absent quantity
	}

	value, ok := math.ParseBig256(s)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidQuantity, "%q", s)
	}

	if value.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidQuantity, "negative %q", s)
	}

	return value, nil
}

// parseHex parses hex with or without the 0x prefix.
func parseHex(s string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if trimmed == "" {
		return nil, errors.Errorf("empty hex value %q", s)
	}

	value, ok := new(big.Int).SetString(trimmed, 16)
	if !ok || value.Sign() < 0 {
		return nil, errors.Errorf("invalid hex value %q", s)
	}

	return value, nil
}
