package test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/address"
	"github/chapool/hd-wallet/internal/wallet/seed"
	"github/chapool/hd-wallet/internal/wallet/store"
)

// TestChainID is the chain id test services sign for; it matches NewFakeNode.
const TestChainID = 1337

// NewTestConfig returns the engine config used by tests.
func NewTestConfig(validation seed.ValidationMode) wallet.Config {
	return wallet.Config{
		ChainID:                big.NewInt(TestChainID),
		MnemonicValidation:     validation,
		ExplorerAddressURL:     "https://explorer.test/address/{address}",
		ExplorerTransactionURL: "https://explorer.test/tx/{tx_id}",
		DefaultListLimit:       20,
		MaxListLimit:           100,
	}
}

// NewTestService returns a wallet service on an in-memory store.
//
//nolint:ireturn // wallet.Service is the public contract
func NewTestService(t *testing.T, node wallet.Node, validation seed.ValidationMode) (wallet.Service, *store.Memory) {
	t.Helper()

	st := store.NewMemory()

	svc, err := wallet.NewService(NewTestConfig(validation), st, node, address.NewService(validation), nil)
	require.NoError(t, err)

	return svc, st
}
