package wallet

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/wallet/seed"
)

// Node is the subset of an EVM JSON-RPC node the engine needs.
type Node interface {
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Wallet is a derived wallet. PrivateKey and Mnemonic are secrets.
type Wallet struct {
	ID          int64
	Address     string
	PrivateKey  string
	Mnemonic    string
	Leaf        uint32
	ExplorerURL string
	CreatedAt   time.Time
}

// WalletWithBalance carries the ether balance; Balance is nil when the node could not be reached.
type WalletWithBalance struct {
	Wallet
	Balance *decimal.Decimal
}

// SendRequest transfers Amount ether to To.
type SendRequest struct {
	To     string
	Amount decimal.Decimal
}

// SendResult holds the transaction hash exactly as returned by the node.
type SendResult struct {
	TransactionID string
	ExplorerURL   string
}

// Config is the immutable engine configuration.
type Config struct {
	ChainID                *big.Int
	MnemonicValidation     seed.ValidationMode
	ExplorerAddressURL     string
	ExplorerTransactionURL string
	DefaultListLimit       int
	MaxListLimit           int
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ConfigFromServer maps the wallet section of the server config.
func ConfigFromServer(cfg config.Wallet) Config {
	return Config{
		ChainID:                big.NewInt(cfg.ChainID),
		MnemonicValidation:     seed.ValidationMode(cfg.MnemonicValidation),
		ExplorerAddressURL:     cfg.ExplorerAddressURL,
		ExplorerTransactionURL: cfg.ExplorerTransactionURL,
		DefaultListLimit:       cfg.DefaultListLimit,
		MaxListLimit:           cfg.MaxListLimit,
	}
}

func (c Config) addressURL(address string) string {
	if c.ExplorerAddressURL == "" {
		return ""
	}

	return strings.ReplaceAll(c.ExplorerAddressURL, "{address}", address)
}

func (c Config) transactionURL(txID string) string {
	if c.ExplorerTransactionURL == "" {
		return ""
	}

	return strings.ReplaceAll(c.ExplorerTransactionURL, "{tx_id}", txID)
}

// pageBounds applies list defaults: limit 20 when unset, at most 100, offset >= 0.
func (c Config) pageBounds(limit int, offset int) (int, int) {
	def := c.DefaultListLimit
	if def <= 0 {
		def = defaultListLimit
	}

	maxLimit := c.MaxListLimit
	if maxLimit <= 0 {
		maxLimit = maxListLimit
	}

	if limit <= 0 {
		limit = def
	}

	return min(limit, maxLimit), max(offset, 0)
}
