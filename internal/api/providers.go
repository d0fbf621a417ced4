package api

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/metrics"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/address"
	"github/chapool/hd-wallet/internal/wallet/node"
	"github/chapool/hd-wallet/internal/wallet/store"
)

// PROVIDERS - used by wire (see wire.go)

//nolint:ireturn // store.Store has several backends
func NewStore(ctx context.Context, cfg config.Server) (store.Store, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open wallet store")
	}

	return st, nil
}

func NewNode(ctx context.Context, cfg config.Server) (*node.RPCClient, error) {
	client, err := node.NewRPCClient(ctx, cfg.Wallet.NodeURLs, cfg.Wallet.NodeTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create node client")
	}

	return client, nil
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

func NewWalletConfig(cfg config.Server) wallet.Config {
	return wallet.ConfigFromServer(cfg.Wallet)
}

// NewWalletService builds the wallet engine with a derivation service for cfg's validation mode.
//
//nolint:ireturn // wallet.Service is the public contract
func NewWalletService(cfg wallet.Config, st store.Store, n wallet.Node, m *metrics.Wallet) (wallet.Service, error) {
	return wallet.NewService(cfg, st, n, address.NewService(cfg.MnemonicValidation), m)
}
