package wallet

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github/chapool/hd-wallet/internal/wallet/balance"
	"github/chapool/hd-wallet/internal/wallet/seed"
)

var (
	ErrAddressNotValid       = errors.New("address is not valid")
	ErrTargetAddressNotValid = errors.New("target address is not valid")
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrNodeUnavailable       = errors.New("node unavailable")
	ErrAmountNotValid        = errors.New("amount is not valid")
	ErrInvalidMnemonic       = seed.ErrInvalidMnemonic
)

// InsufficientFundsError is returned by Send when balance < amount + fee. Both values
// are in ether.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, required %s",
		balance.Format(e.Available), balance.Format(e.Required))
}

// nodeError marks err as a node failure of op.
func nodeError(op string, err error) error {
	return errors.Wrapf(ErrNodeUnavailable, "%s: %v", op, err)
}
