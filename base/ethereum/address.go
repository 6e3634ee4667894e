package ethereum

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidAddress = errors.New("invalid address")

// ParseAddress accepts a 0x-prefixed or bare 40 hex char address. Mixed case
// input must carry a valid EIP-55 checksum.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidAddress
	}
	addr := common.HexToAddress(s)
	bare := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if bare != strings.ToLower(bare) && bare != strings.ToUpper(bare) {
		if addr.Hex()[2:] != bare {
			return common.Address{}, ErrInvalidAddress
		}
	}
	return addr, nil
}

// LowerHexNoPrefix is the address form used by reverse records
func LowerHexNoPrefix(addr common.Address) string {
	return strings.ToLower(addr.Hex()[2:])
}

// IsZero reports whether the address is unset
func IsZero(addr common.Address) bool {
	return addr == (common.Address{})
}
