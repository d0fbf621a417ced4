package wallet_test

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-openapi/swag"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/hd-wallet/internal/test"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/address"
	"github/chapool/hd-wallet/internal/wallet/balance"
	"github/chapool/hd-wallet/internal/wallet/node"
	"github/chapool/hd-wallet/internal/wallet/seed"
	"github/chapool/hd-wallet/internal/wallet/store"
)

const (
	legacyMnemonic  = "alter phrase erupt aun glory media want aun noble tooth fine aun"
	hardhatMnemonic = "test test test test test test test test test test test junk"

	hardhatLeaf0 = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	hardhatLeaf1 = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

var oneEther = big.NewInt(1_000_000_000_000_000_000)

func createHardhat(t *testing.T, svc wallet.Service) *wallet.Wallet {
	t.Helper()

	w, err := svc.Create(context.Background(), swag.String(hardhatMnemonic))
	require.NoError(t, err)

	return w
}

func TestCreateLegacyPhraseAllocatesSequentialLeaves(t *testing.T) {
	svc, _ := test.NewTestService(t, test.NewFakeNode(), seed.ValidationWords)
	ctx := context.Background()

	first, err := svc.Create(ctx, swag.String(legacyMnemonic))
	require.NoError(t, err)

	second, err := svc.Create(ctx, swag.String("  alter phrase erupt aun glory media\twant aun noble tooth fine aun "))
	require.NoError(t, err)

	assert.Equal(t, uint32(0), first.Leaf)
	assert.Equal(t, "0x7e13F900472204F062c270B5E9Cb3CF127B08F18", first.Address)
	assert.Equal(t, "42ba349b3c2120f30e4210c9086515b8e231a2047af84767b584ec35f7e25494", first.PrivateKey)
	assert.Equal(t, legacyMnemonic, first.Mnemonic)
	assert.Equal(t, "https://explorer.test/address/0x7e13F900472204F062c270B5E9Cb3CF127B08F18", first.ExplorerURL)

	assert.Equal(t, uint32(1), second.Leaf)
	assert.Equal(t, "0x824627930c62aF8e8622cAd17Def8cB122290643", second.Address)
	assert.Equal(t, "b7f2e9c115d51d8481b79d8854e5308dc83f41ebf6e6e50f45bda3efdf0fd0a5", second.PrivateKey)
	assert.Equal(t, legacyMnemonic, second.Mnemonic)
}

func TestCreateGeneratesMnemonic(t *testing.T) {
	svc, st := test.NewTestService(t, test.NewFakeNode(), seed.ValidationStrict)
	ctx := context.Background()

	for _, in := range []*string{nil, swag.String(""), swag.String("   ")} {
		w, err := svc.Create(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, uint32(0), w.Leaf)
		require.NoError(t, seed.ValidateMnemonic(w.Mnemonic, seed.ValidationStrict))

		rec, err := st.FindByAddress(ctx, w.Address)
		require.NoError(t, err)
		assert.Equal(t, w.PrivateKey, rec.PrivateKey)
	}
}

func TestCreateRejectsInvalidMnemonic(t *testing.T) {
	svc, st := test.NewTestService(t, test.NewFakeNode(), seed.ValidationStrict)
	ctx := context.Background()

	_, err := svc.Create(ctx, swag.String(legacyMnemonic))
	require.ErrorIs(t, err, wallet.ErrInvalidMnemonic)

	_, err = svc.Create(ctx, swag.String("only three words"))
	require.ErrorIs(t, err, wallet.ErrInvalidMnemonic)

	records, err := st.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	relaxed, _ := test.NewTestService(t, test.NewFakeNode(), seed.ValidationWords)
	w, err := relaxed.Create(ctx, swag.String(legacyMnemonic))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), w.Leaf)
}

func TestCreateConcurrentLeavesAreUnique(t *testing.T) {
	svc, _ := test.NewTestService(t, test.NewFakeNode(), seed.ValidationStrict)
	ctx := context.Background()

	const n = 8

	var wg sync.WaitGroup
	results := make([]*wallet.Wallet, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Create(ctx, swag.String(hardhatMnemonic))
		}(i)
	}
	wg.Wait()

	leaves := map[uint32]string{}
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		_, dup := leaves[results[i].Leaf]
		require.False(t, dup, "leaf %d allocated twice", results[i].Leaf)
		leaves[results[i].Leaf] = results[i].Address
	}

	for leaf := uint32(0); leaf < n; leaf++ {
		assert.Contains(t, leaves, leaf)
	}

	assert.Equal(t, hardhatLeaf0, leaves[0])
	assert.Equal(t, hardhatLeaf1, leaves[1])
}

func TestNextLeaf(t *testing.T) {
	svc, _ := test.NewTestService(t, test.NewFakeNode(), seed.ValidationStrict)
	ctx := context.Background()

	leaf, err := svc.NextLeaf(ctx, hardhatMnemonic)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), leaf)

	createHardhat(t, svc)
	createHardhat(t, svc)

	leaf, err = svc.NextLeaf(ctx, hardhatMnemonic)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), leaf)
}

func TestGetWithBalance(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)
	ctx := context.Background()

	w := createHardhat(t, svc)
	node.SetBalance(w.Address, oneEther)

	got, err := svc.GetWithBalance(ctx, w.Address)
	require.NoError(t, err)
	require.NotNil(t, got.Balance)
	assert.Equal(t, "1.000000000000000000", balance.Format(*got.Balance))
	assert.Equal(t, w.PrivateKey, got.PrivateKey)
	assert.Equal(t, hardhatMnemonic, got.Mnemonic)
	assert.Equal(t, uint32(0), got.Leaf)

	node.SetBalance(w.Address, big.NewInt(1))

	got, err = svc.GetWithBalance(ctx, "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	require.NoError(t, err)
	require.NotNil(t, got.Balance)
	assert.Equal(t, "0.000000000000000001", balance.Format(*got.Balance))
	assert.Equal(t, hardhatLeaf0, got.Address)
}

func TestGetWithBalanceNodeUnavailableIsPartial(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)

	w := createHardhat(t, svc)
	node.FailAll()

	got, err := svc.GetWithBalance(context.Background(), w.Address)
	require.NoError(t, err)
	assert.Nil(t, got.Balance)
	assert.Equal(t, w.Address, got.Address)
	assert.Equal(t, w.PrivateKey, got.PrivateKey)
}

func TestGetWithBalanceErrors(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)
	ctx := context.Background()

	_, err := svc.GetWithBalance(ctx, "not-an-address")
	require.ErrorIs(t, err, wallet.ErrAddressNotValid)

	_, err = svc.GetWithBalance(ctx, hardhatLeaf1)
	require.ErrorIs(t, err, wallet.ErrWalletNotFound)

	_, err = svc.Get(ctx, hardhatLeaf1)
	require.ErrorIs(t, err, wallet.ErrWalletNotFound)

	assert.Zero(t, node.TotalCalls())
}

func TestList(t *testing.T) {
	svc, _ := test.NewTestService(t, test.NewFakeNode(), seed.ValidationStrict)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		createHardhat(t, svc)
	}

	wallets, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, wallets, 20)
	assert.Equal(t, uint32(0), wallets[0].Leaf)

	wallets, err = svc.List(ctx, 1000, -5)
	require.NoError(t, err)
	assert.Len(t, wallets, 25)

	wallets, err = svc.List(ctx, 5, 22)
	require.NoError(t, err)
	require.Len(t, wallets, 3)
	assert.Equal(t, uint32(22), wallets[0].Leaf)
}

func TestSendRejectsInvalidAddressesWithoutNodeCalls(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)
	ctx := context.Background()

	w := createHardhat(t, svc)

	_, err := svc.Send(ctx, "0x123", wallet.SendRequest{To: hardhatLeaf1, Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, wallet.ErrAddressNotValid)

	_, err = svc.Send(ctx, w.Address, wallet.SendRequest{To: "0xnot-valid", Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, wallet.ErrTargetAddressNotValid)

	_, err = svc.Send(ctx, w.Address, wallet.SendRequest{To: "0xF39fd6e51aad88F6F4ce6aB8827279cffFb92266", Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, wallet.ErrTargetAddressNotValid)

	_, err = svc.Send(ctx, hardhatLeaf1, wallet.SendRequest{To: w.Address, Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, wallet.ErrWalletNotFound)

	assert.Zero(t, node.TotalCalls())
}

func TestSendInsufficientFunds(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)

	w := createHardhat(t, svc)
	node.SetBalance(w.Address, big.NewInt(0))
	node.GasLimit = 1_000_000_000_000_000_000
	node.GasPrice = big.NewInt(1)

	_, err := svc.Send(context.Background(), w.Address, wallet.SendRequest{To: hardhatLeaf1, Amount: decimal.NewFromInt(1)})

	var insufficient *wallet.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(decimal.Zero))
	assert.True(t, insufficient.Required.Equal(decimal.NewFromInt(2)))

	assert.Zero(t, node.Calls(test.OpPendingNonceAt))
	assert.Zero(t, node.Calls(test.OpSendRawTransaction))
	assert.Empty(t, node.Sent)
}

func TestSendSubmitsSignedTransfer(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)

	w := createHardhat(t, svc)
	node.SetBalance(w.Address, oneEther)
	node.GasLimit = 0
	node.GasPrice = big.NewInt(1)
	node.Nonce = 9

	result, err := svc.Send(context.Background(), w.Address, wallet.SendRequest{To: hardhatLeaf1, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)

	assert.Equal(t, test.DefaultTxHash, result.TransactionID)
	assert.Equal(t, "https://explorer.test/tx/"+test.DefaultTxHash, result.ExplorerURL)

	require.Len(t, node.Sent, 1)

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(node.Sent[0]))

	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
	assert.Equal(t, uint64(9), tx.Nonce())
	assert.Equal(t, uint64(0), tx.Gas())
	assert.Equal(t, 0, tx.GasPrice().Cmp(big.NewInt(1)))
	assert.Equal(t, 0, tx.Value().Cmp(oneEther))
	assert.Equal(t, common.HexToAddress(hardhatLeaf1), *tx.To())
	assert.Empty(t, tx.Data())

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(test.TestChainID)), &tx)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(hardhatLeaf0), sender)

	assert.Equal(t, common.HexToAddress(hardhatLeaf0), node.LastCall.From)
	assert.Equal(t, 0, node.LastCall.Value.Cmp(oneEther))
}

func TestSendFeeBoundary(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)
	ctx := context.Background()

	w := createHardhat(t, svc)
	node.GasLimit = 21000
	node.GasPrice = big.NewInt(10)

	amount := decimal.RequireFromString("0.000000000000001")
	exact := big.NewInt(1000 + 21000*10)

	node.SetBalance(w.Address, new(big.Int).Sub(exact, big.NewInt(1)))
	_, err := svc.Send(ctx, w.Address, wallet.SendRequest{To: hardhatLeaf1, Amount: amount})

	var insufficient *wallet.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "0.000000000000210999", balance.Format(insufficient.Available))
	assert.Equal(t, "0.000000000000211000", balance.Format(insufficient.Required))

	node.SetBalance(w.Address, exact)
	_, err = svc.Send(ctx, w.Address, wallet.SendRequest{To: hardhatLeaf1, Amount: amount})
	require.NoError(t, err)
}

func TestSendAmountNotValid(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)
	ctx := context.Background()

	w := createHardhat(t, svc)
	node.SetBalance(w.Address, oneEther)

	for _, amount := range []string{"-1", "0.0000000000000000001", "1e2147483600", "1e-2147483600"} {
		_, err := svc.Send(ctx, w.Address, wallet.SendRequest{To: hardhatLeaf1, Amount: decimal.RequireFromString(amount)})
		require.ErrorIs(t, err, wallet.ErrAmountNotValid, amount)
	}

	assert.Empty(t, node.Sent)
}

func TestSendNodeUnavailable(t *testing.T) {
	for _, op := range []string{
		test.OpBalanceAt,
		test.OpEstimateGas,
		test.OpSuggestGasPrice,
		test.OpPendingNonceAt,
		test.OpSendRawTransaction,
	} {
		t.Run(op, func(t *testing.T) {
			node := test.NewFakeNode()
			svc, _ := test.NewTestService(t, node, seed.ValidationStrict)

			w := createHardhat(t, svc)
			node.SetBalance(w.Address, oneEther)
			node.FailOn(op, test.ErrFakeNodeDown)

			_, err := svc.Send(context.Background(), w.Address, wallet.SendRequest{To: hardhatLeaf1, Amount: decimal.RequireFromString("0.1")})
			require.ErrorIs(t, err, wallet.ErrNodeUnavailable)
		})
	}
}

func TestNodeTimeoutIsNodeUnavailable(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer slow.Close()

	ctx := context.Background()

	client, err := node.NewRPCClient(ctx, []string{slow.URL}, 200*time.Millisecond)
	require.NoError(t, err)
	defer client.Close()

	svc, _ := test.NewTestService(t, client, seed.ValidationStrict)
	w := createHardhat(t, svc)

	start := time.Now()

	got, err := svc.GetWithBalance(ctx, w.Address)
	require.NoError(t, err)
	assert.Nil(t, got.Balance)

	_, err = svc.Send(ctx, w.Address, wallet.SendRequest{To: hardhatLeaf1, Amount: decimal.RequireFromString("0.1")})
	require.ErrorIs(t, err, wallet.ErrNodeUnavailable)

	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestSendCancelledContext(t *testing.T) {
	node := test.NewFakeNode()
	svc, _ := test.NewTestService(t, node, seed.ValidationStrict)

	w := createHardhat(t, svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Send(ctx, w.Address, wallet.SendRequest{To: hardhatLeaf1, Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, wallet.ErrNodeUnavailable)
	assert.Empty(t, node.Sent)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := wallet.NewService(test.NewTestConfig(seed.ValidationStrict), nil, test.NewFakeNode(), nil, nil)
	require.Error(t, err)

	cfg := test.NewTestConfig(seed.ValidationStrict)
	cfg.ChainID = nil
	_, err = wallet.NewService(cfg, store.NewMemory(), test.NewFakeNode(), address.NewService(seed.ValidationStrict), nil)
	require.Error(t, err)
}

func TestVerifyChainID(t *testing.T) {
	node := test.NewFakeNode()
	ctx := context.Background()

	ok, err := wallet.VerifyChainID(ctx, node, big.NewInt(test.TestChainID))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = wallet.VerifyChainID(ctx, node, big.NewInt(1))
	require.NoError(t, err)
	assert.False(t, ok)

	node.FailAll()
	_, err = wallet.VerifyChainID(ctx, node, big.NewInt(1))
	require.Error(t, err)
}
