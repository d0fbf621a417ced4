// Package balance converts between wei and ether without floating point.
package balance

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimal places between wei and ether.
const EtherDecimals = 18

// maxEtherDigits is the number of integer digits of MaxWei in ether.
const maxEtherDigits = 60

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrTooPrecise     = errors.New("amount is more precise than 1 wei")
	ErrTooLarge       = errors.New("amount exceeds the uint256 wei range")
)

// MaxWei is the largest value a transaction can carry.
var MaxWei = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ToEther converts a wei amount into an exact ether decimal. A nil amount is zero.
func ToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(wei, -EtherDecimals)
}

// ToWei converts an ether amount into wei. Negative amounts, amounts with more than
// 18 decimal places and amounts above MaxWei are rejected.
// Bounds are checked on digits and exponent before any scaling, so inputs like "1e2147483600"
// fail without materialising the integer.
func ToWei(ether decimal.Decimal) (*big.Int, error) {
	if ether.IsNegative() {
		return nil, ErrNegativeAmount
	}

	if ether.IsZero() {
		return new(big.Int), nil
	}

	digits := int64(len(ether.Coefficient().Text(10)))
	exp := int64(ether.Exponent())

	if exp+digits > maxEtherDigits {
		return nil, ErrTooLarge
	}

	// A non-zero coefficient needs more than k digits to be a multiple of 10^k.
	if fraction := -(exp + EtherDecimals); fraction > 0 && fraction >= digits {
		return nil, ErrTooPrecise
	}

	scaled := ether.Shift(EtherDecimals)
	if !scaled.IsInteger() {
		return nil, ErrTooPrecise
	}

	wei := scaled.BigInt()
	if wei.Cmp(MaxWei) > 0 {
		return nil, ErrTooLarge
	}

	return wei, nil
}

// Format renders an ether amount with exactly 18 decimal places.
func Format(ether decimal.Decimal) string {
	return ether.StringFixed(EtherDecimals)
}

// FormatWei is Format(ToEther(wei)).
func FormatWei(wei *big.Int) string {
	return Format(ToEther(wei))
}

// Parse reads a decimal ether string such as "0.5" or "1e-18".
func Parse(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "failed to parse amount %q", raw)
	}

	return amount, nil
}
