package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// BIP-44 path segments for Ethereum: m/44'/60'/account'/change/index
const (
	PurposeBIP44    = bip32.FirstHardenedChild + 44
	CoinTypeEther   = bip32.FirstHardenedChild + 60
	ChangeExternal  = 0
	DefaultAccount  = 0
	hardenedPostfix = "'"
)

// BIP44Path formats the derivation path of a leaf.
func BIP44Path(account uint32, leaf uint32) string {
	return fmt.Sprintf("m/44'/60'/%d'/%d/%d", account, ChangeExternal, leaf)
}

// ParsePath parses a BIP-32 path string into child indices.
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("invalid BIP44 path: %s", path)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, hardenedPostfix) || strings.HasSuffix(part, "h")
		if hardened {
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || index >= uint64(bip32.FirstHardenedChild) {
			return nil, fmt.Errorf("invalid path segment: %q", part)
		}

		//nolint:gosec // bounded by the check above
		child := uint32(index)
		if hardened {
			child += bip32.FirstHardenedChild
		}

		indices = append(indices, child)
	}

	return indices, nil
}
