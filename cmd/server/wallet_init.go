package server

import (
	"context"

	"github.com/rs/zerolog/log"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/store"
)

// initializeWallet prepares the wallet engine at startup: it applies pending migrations
// when requested and compares the node's chain id with the configured one.
func initializeWallet(ctx context.Context, s *api.Server, migrate bool) error {
	if migrate {
		pg, ok := s.Store.(*store.Postgres)
		if !ok {
			log.Warn().Str("driver", s.Config.Wallet.StoreDriver).Msg("Ignoring --migrate, store is not postgres")
		} else if _, err := store.Migrate(ctx, pg.DB(), false); err != nil {
			return err
		}
	}

	if s.Config.Wallet.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("Using the in-memory wallet store, wallets are lost on shutdown")
	}

	cfg := wallet.ConfigFromServer(s.Config.Wallet)

	// A mismatch or an unreachable node is not fatal; requests report node errors themselves.
	if _, err := wallet.VerifyChainID(ctx, s.Node, cfg.ChainID); err != nil {
		log.Warn().Err(err).Msg("Skipping chain id verification")
	}

	return nil
}
