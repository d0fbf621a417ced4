package wallet

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/shopspring/decimal"
	"github/chapool/hd-wallet/internal/api/httperrors"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/balance"
)

// PostCreateWalletPayload creates a wallet from an optional recovery phrase.
type PostCreateWalletPayload struct {
	Mnemonic *string `json:"mnemonic,omitempty"`
}

// PostSendPayload transfers amount ether to "to".
type PostSendPayload struct {
	To     *string          `json:"to"`
	Amount *decimal.Decimal `json:"amount"`
}

func (p *PostSendPayload) Validate() error {
	var details []*httperrors.HTTPValidationErrorDetail

	if swag.StringValue(p.To) == "" {
		details = append(details, &httperrors.HTTPValidationErrorDetail{Key: "to", In: "body", Error: "required"})
	}

	if p.Amount == nil {
		details = append(details, &httperrors.HTTPValidationErrorDetail{Key: "amount", In: "body", Error: "required"})
	}

	if len(details) > 0 {
		return httperrors.NewHTTPValidationError(http.StatusBadRequest, httperrors.TypeValidation, "Invalid request body.", details)
	}

	return nil
}

// WalletDetail is a wallet including its secrets.
type WalletDetail struct {
	Address     *string `json:"address"`
	PrivateKey  *string `json:"private_key"`
	Mnemonic    *string `json:"mnemonic"`
	Leaf        *int64  `json:"leaf"`
	ExplorerURL string  `json:"explorer_url,omitempty"`
}

func (w *WalletDetail) Validate() error {
	if w.Address == nil || w.PrivateKey == nil || w.Mnemonic == nil || w.Leaf == nil {
		return httperrors.NewHTTPError(http.StatusInternalServerError, httperrors.TypeGeneric, "Incomplete wallet document.")
	}

	return nil
}

// WalletWithBalance adds the ether balance; null when the node was unavailable.
type WalletWithBalance struct {
	WalletDetail

	Balance *string `json:"balance"`
}

// SendResponse is the outcome of a submitted transfer.
type SendResponse struct {
	TransactionID string `json:"transaction_id"`
	ExplorerURL   string `json:"explorer_url,omitempty"`
}

func toWalletDetail(w *wallet.Wallet) *WalletDetail {
	return &WalletDetail{
		Address:     swag.String(w.Address),
		PrivateKey:  swag.String(w.PrivateKey),
		Mnemonic:    swag.String(w.Mnemonic),
		Leaf:        swag.Int64(int64(w.Leaf)),
		ExplorerURL: w.ExplorerURL,
	}
}

func toWalletWithBalance(w *wallet.WalletWithBalance) *WalletWithBalance {
	result := &WalletWithBalance{WalletDetail: *toWalletDetail(&w.Wallet)}
	if w.Balance != nil {
		result.Balance = swag.String(balance.Format(*w.Balance))
	}

	return result
}
