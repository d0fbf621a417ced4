package address

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValid reports whether s is a syntactically valid address: "0x" followed by 40 hex
// digits. Mixed-case input must carry a correct EIP-55 checksum.
func IsValid(s string) bool {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return false
	}

	body := s[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}

	return common.HexToAddress(s).Hex() == s
}

// Checksum returns the EIP-55 form of a valid address.
func Checksum(s string) string {
	return common.HexToAddress(s).Hex()
}
