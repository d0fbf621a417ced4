package wallet

import (
	"math/big"

	"github/chapool/hd-wallet/internal/wallet/balance"
)

// Fee returns gasLimit * gasPrice in wei.
func Fee(gasLimit uint64, gasPrice *big.Int) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)
}

// CheckFunds fails with *InsufficientFundsError unless balance >= amount + fee (all wei).
func CheckFunds(bal *big.Int, amount *big.Int, fee *big.Int) error {
	required := new(big.Int).Add(amount, fee)
	if bal.Cmp(required) >= 0 {
		return nil
	}

	return &InsufficientFundsError{
		Available: balance.ToEther(bal),
		Required:  balance.ToEther(required),
	}
}
