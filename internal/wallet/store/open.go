package store

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/hd-wallet/internal/config"
)

// Open creates the store selected by cfg.Wallet.StoreDriver.
//
//nolint:ireturn // callers only depend on the Store contract
func Open(ctx context.Context, cfg config.Server) (Store, error) {
	switch cfg.Wallet.StoreDriver {
	case config.StoreDriverPostgres:
		return OpenPostgres(ctx, cfg.Database)
	case config.StoreDriverBadger:
		return OpenBadger(cfg.Wallet.BadgerPath)
	case config.StoreDriverMemory:
		return NewMemory(), nil
	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.Wallet.StoreDriver)
	}
}
