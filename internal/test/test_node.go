package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Operation names counted by FakeNode.
const (
	OpBalanceAt          = "BalanceAt"
	OpSuggestGasPrice    = "SuggestGasPrice"
	OpEstimateGas        = "EstimateGas"
	OpPendingNonceAt     = "PendingNonceAt"
	OpSendRawTransaction = "SendRawTransaction"
	OpChainID            = "ChainID"
)

// DefaultTxHash is returned by FakeNode.SendRawTransaction unless TxHash is changed.
const DefaultTxHash = "0x5e1ec7ed5e1ec7ed5e1ec7ed5e1ec7ed5e1ec7ed5e1ec7ed5e1ec7ed5e1ec7ed"

var ErrFakeNodeDown = errors.New("fake node is down")

// FakeNode is a deterministic wallet.Node. Balances default to zero.
type FakeNode struct {
	mu sync.Mutex

	balances map[common.Address]*big.Int
	errs     map[string]error
	calls    map[string]int

	GasLimit uint64
	GasPrice *big.Int
	Nonce    uint64
	Chain    *big.Int
	TxHash   string

	// Sent holds every raw transaction passed to SendRawTransaction.
	Sent [][]byte
	// LastCall is the last CallMsg passed to EstimateGas.
	LastCall ethereum.CallMsg
}

func NewFakeNode() *FakeNode {
	return &FakeNode{
		balances: make(map[common.Address]*big.Int),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
		GasLimit: 21000,
		GasPrice: big.NewInt(1_000_000_000),
		Chain:    big.NewInt(1337),
		TxHash:   DefaultTxHash,
	}
}

// SetBalance sets the wei balance of address.
func (f *FakeNode) SetBalance(address string, wei *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.balances[common.HexToAddress(address)] = new(big.Int).Set(wei)
}

// FailOn makes op fail with err; a nil err clears the failure.
func (f *FakeNode) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.errs, op)
		return
	}

	f.errs[op] = err
}

// FailAll makes every operation fail with ErrFakeNodeDown.
func (f *FakeNode) FailAll() {
	for _, op := range []string{OpBalanceAt, OpSuggestGasPrice, OpEstimateGas, OpPendingNonceAt, OpSendRawTransaction, OpChainID} {
		f.FailOn(op, ErrFakeNodeDown)
	}
}

// Calls returns how often op was invoked.
func (f *FakeNode) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

// TotalCalls returns the number of invocations across all operations.
func (f *FakeNode) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, n := range f.calls {
		total += n
	}

	return total
}

func (f *FakeNode) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	if err := ctx.Err(); err != nil {
		return err
	}

	return f.errs[op]
}

func (f *FakeNode) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	if err := f.enter(ctx, OpBalanceAt); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if bal, ok := f.balances[address]; ok {
		return new(big.Int).Set(bal), nil
	}

	return big.NewInt(0), nil
}

func (f *FakeNode) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := f.enter(ctx, OpSuggestGasPrice); err != nil {
		return nil, err
	}

	return new(big.Int).Set(f.GasPrice), nil
}

func (f *FakeNode) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if err := f.enter(ctx, OpEstimateGas); err != nil {
		return 0, err
	}

	f.mu.Lock()
	f.LastCall = msg
	f.mu.Unlock()

	return f.GasLimit, nil
}

func (f *FakeNode) PendingNonceAt(ctx context.Context, _ common.Address) (uint64, error) {
	if err := f.enter(ctx, OpPendingNonceAt); err != nil {
		return 0, err
	}

	return f.Nonce, nil
}

func (f *FakeNode) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	if err := f.enter(ctx, OpSendRawTransaction); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.Sent = append(f.Sent, append([]byte(nil), raw...))

	return f.TxHash, nil
}

func (f *FakeNode) ChainID(ctx context.Context) (*big.Int, error) {
	if err := f.enter(ctx, OpChainID); err != nil {
		return nil, err
	}

	return new(big.Int).Set(f.Chain), nil
}
