package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/api"
	"github/chapool/hd-wallet/internal/api/router"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util/command"
)

const (
	migrateFlag     = "migrate"
	shutdownTimeout = 30 * time.Second
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the wallet HTTP server.

Requires configuration through ENV and a reachable wallet store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrate, err := cmd.Flags().GetBool(migrateFlag)
			if err != nil {
				return err
			}

			return runServer(cmd.Context(), migrate)
		},
	}

	cmd.Flags().Bool(migrateFlag, false, "If set, applies pending postgres migrations before starting the server")

	return cmd
}

func runServer(ctx context.Context, migrate bool) error {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg.Logger)

	s, err := api.InitNewServer(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		return err
	}

	if err := initializeWallet(ctx, s, migrate); err != nil {
		log.Error().Err(err).Msg("Failed to initialize wallet")
		s.Shutdown(ctx)
		return err
	}

	router.Init(s)

	go func() {
		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	log.Info().Str("address", cfg.Echo.ListenAddress).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
		log.Fatal().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
	}

	log.Info().Msg("Server shut down")

	return nil
}
