package wallet

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/hd-wallet/internal/metrics"
	"github/chapool/hd-wallet/internal/util"
	"github/chapool/hd-wallet/internal/wallet/address"
	"github/chapool/hd-wallet/internal/wallet/balance"
	"github/chapool/hd-wallet/internal/wallet/seed"
	"github/chapool/hd-wallet/internal/wallet/signer"
	"github/chapool/hd-wallet/internal/wallet/store"
)

// Service manages HD wallets and their native transfers.
type Service interface {
	// Create derives and persists the next wallet of mnemonic. A nil or blank mnemonic
	// generates a new phrase.
	Create(ctx context.Context, mnemonic *string) (*Wallet, error)

	// Get loads a stored wallet without contacting the node.
	Get(ctx context.Context, addr string) (*Wallet, error)

	// GetWithBalance loads a wallet and its current balance.
	GetWithBalance(ctx context.Context, addr string) (*WalletWithBalance, error)

	// List pages through wallets in creation order.
	List(ctx context.Context, limit int, offset int) ([]*Wallet, error)

	// NextLeaf previews the leaf the next Create for mnemonic would use.
	NextLeaf(ctx context.Context, mnemonic string) (uint32, error)

	// Send builds, fee checks, signs and submits a native transfer from a stored wallet.
	Send(ctx context.Context, from string, req SendRequest) (*SendResult, error)
}

type service struct {
	cfg            Config
	store          store.Store
	node           Node
	addressService address.Service
	metrics        *metrics.Wallet
}

// NewService creates a new wallet Service. m may be nil.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(cfg Config, st store.Store, node Node, addressService address.Service, m *metrics.Wallet) (Service, error) {
	if st == nil || node == nil || addressService == nil {
		return nil, errors.New("store, node and address service are required")
	}

	if cfg.ChainID == nil {
		return nil, errors.New("chain id is required")
	}

	return &service{
		cfg:            cfg,
		store:          st,
		node:           node,
		addressService: addressService,
		metrics:        m,
	}, nil
}

func (s *service) Create(ctx context.Context, mnemonic *string) (*Wallet, error) {
	log := util.LogFromContext(ctx)

	phrase := ""
	if mnemonic != nil {
		phrase = seed.NormalizeMnemonic(*mnemonic)
	}

	if phrase == "" {
		generated, err := seed.GenerateMnemonic()
		if err != nil {
			return nil, err
		}
		phrase = generated
	}

	// Seed stretching is slow; do it before the allocation transaction.
	root, err := s.addressService.DeriveRoot(phrase)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.InsertNext(ctx, phrase, func(leaf uint32) (*store.Record, error) {
		key, err := s.addressService.DeriveLeaf(root, address.DefaultAccount, leaf)
		if err != nil {
			return nil, err
		}

		return &store.Record{
			Address:    key.Address,
			PrivateKey: key.PrivateKey,
		}, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist wallet")
	}

	s.metrics.WalletCreated()

	log.Info().
		Str("address", rec.Address).
		Uint32("leaf", rec.Leaf).
		Msg("Wallet created")

	return FromRecord(rec, s.cfg), nil
}

func (s *service) Get(ctx context.Context, addr string) (*Wallet, error) {
	rec, err := s.load(ctx, addr)
	if err != nil {
		return nil, err
	}

	return FromRecord(rec, s.cfg), nil
}

func (s *service) GetWithBalance(ctx context.Context, addr string) (*WalletWithBalance, error) {
	rec, err := s.load(ctx, addr)
	if err != nil {
		return nil, err
	}

	result := &WalletWithBalance{Wallet: *FromRecord(rec, s.cfg)}

	wei, err := s.node.BalanceAt(ctx, common.HexToAddress(rec.Address))
	if err != nil {
		s.metrics.NodeError("balance")
		util.LogFromContext(ctx).Warn().
			Err(err).
			Str("address", rec.Address).
			Msg("Balance unavailable, returning wallet without balance")

		return result, nil
	}

	ether := balance.ToEther(wei)
	result.Balance = &ether

	return result, nil
}

func (s *service) List(ctx context.Context, limit int, offset int) ([]*Wallet, error) {
	limit, offset = s.cfg.pageBounds(limit, offset)

	records, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wallets")
	}

	return FromRecords(records, s.cfg), nil
}

func (s *service) NextLeaf(ctx context.Context, mnemonic string) (uint32, error) {
	latest, err := s.store.FindLatestByMnemonic(ctx, seed.NormalizeMnemonic(mnemonic))
	if errors.Is(err, store.ErrNotFound) {
		return store.NextLeaf(nil), nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to load latest wallet")
	}

	return store.NextLeaf(latest), nil
}

func (s *service) Send(ctx context.Context, from string, req SendRequest) (*SendResult, error) {
	if !address.IsValid(from) {
		return nil, ErrAddressNotValid
	}

	if !address.IsValid(req.To) {
		return nil, ErrTargetAddressNotValid
	}

	rec, err := s.load(ctx, from)
	if err != nil {
		return nil, err
	}

	log := util.LogFromContext(ctx).With().
		Str("address", rec.Address).
		Str("to", address.Checksum(req.To)).
		Logger()

	fromAddress := common.HexToAddress(rec.Address)
	toAddress := common.HexToAddress(req.To)

	bal, err := s.node.BalanceAt(ctx, fromAddress)
	if err != nil {
		return nil, s.failNode(ctx, "balance", err)
	}

	value, err := balance.ToWei(req.Amount)
	if err != nil {
		return nil, errors.Wrap(ErrAmountNotValid, err.Error())
	}

	gasLimit, err := s.node.EstimateGas(ctx, ethereum.CallMsg{
		From:  fromAddress,
		To:    &toAddress,
		Value: value,
	})
	if err != nil {
		return nil, s.failNode(ctx, "estimate_gas", err)
	}

	gasPrice, err := s.node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, s.failNode(ctx, "gas_price", err)
	}

	fee := Fee(gasLimit, gasPrice)
	if err := CheckFunds(bal, value, fee); err != nil {
		s.metrics.TransferResult(metrics.TransferInsufficientFunds)
		log.Info().Err(err).Msg("Transfer rejected by fee check")
		return nil, err
	}

	nonce, err := s.node.PendingNonceAt(ctx, fromAddress)
	if err != nil {
		s.metrics.TransferResult(metrics.TransferFailed)
		return nil, s.failNode(ctx, "nonce", err)
	}

	signed, err := signer.SignLegacyTransfer(&signer.LegacyTransfer{
		ChainID:  s.cfg.ChainID,
		Nonce:    nonce,
		GasLimit: gasLimit,
		GasPrice: gasPrice,
		To:       toAddress,
		Value:    value,
	}, rec.PrivateKey, fromAddress)
	if err != nil {
		s.metrics.TransferResult(metrics.TransferFailed)
		return nil, errors.Wrap(err, "failed to sign transfer")
	}

	txID, err := s.node.SendRawTransaction(ctx, signed.RawTransaction)
	if err != nil {
		s.metrics.TransferResult(metrics.TransferFailed)
		log.Error().Err(err).Str("local_tx_hash", signed.TxHash).Msg("Signed transfer was not accepted by the node")
		return nil, s.failNode(ctx, "send", err)
	}

	s.metrics.TransferResult(metrics.TransferSubmitted)

	log.Info().
		Str("tx_hash", txID).
		Uint64("nonce", nonce).
		Str("value_wei", value.String()).
		Str("fee_wei", fee.String()).
		Msg("Transfer submitted")

	return &SendResult{
		TransactionID: txID,
		ExplorerURL:   s.cfg.transactionURL(txID),
	}, nil
}

// load validates addr and fetches its record.
func (s *service) load(ctx context.Context, addr string) (*store.Record, error) {
	if !address.IsValid(addr) {
		return nil, ErrAddressNotValid
	}

	rec, err := s.store.FindByAddress(ctx, address.Checksum(addr))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load wallet")
	}

	return rec, nil
}

func (s *service) failNode(ctx context.Context, op string, err error) error {
	s.metrics.NodeError(op)
	util.LogFromContext(ctx).Warn().Err(err).Str("op", op).Msg("Node call failed")

	return nodeError(op, err)
}
