package wallet

import (
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/balance"
)

type walletOutput struct {
	Address     string  `json:"address"`
	PrivateKey  string  `json:"private_key"`
	Mnemonic    string  `json:"mnemonic"`
	Leaf        uint32  `json:"leaf"`
	ExplorerURL string  `json:"explorer_url,omitempty"`
	Balance     *string `json:"balance,omitempty"`
}

func toOutput(w *wallet.Wallet) *walletOutput {
	return &walletOutput{
		Address:     w.Address,
		PrivateKey:  w.PrivateKey,
		Mnemonic:    w.Mnemonic,
		Leaf:        w.Leaf,
		ExplorerURL: w.ExplorerURL,
	}
}

func toOutputWithBalance(w *wallet.WalletWithBalance) *walletOutput {
	out := toOutput(&w.Wallet)
	if w.Balance != nil {
		formatted := balance.Format(*w.Balance)
		out.Balance = &formatted
	}

	return out
}
