package db

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util/command"
	"github/chapool/hd-wallet/internal/wallet/store"
)

const downFlag = "down"

func newMigrate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Executes all pending wallet table migrations",
		Long: `Executes all pending migrations of the postgres wallet store.
With --down the most recently applied migration is reverted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			down, err := cmd.Flags().GetBool(downFlag)
			if err != nil {
				return err
			}

			return migrateCmdFunc(cmd.Context(), down)
		},
	}

	cmd.Flags().Bool(downFlag, false, "Revert the most recent migration")

	return cmd
}

func migrateCmdFunc(ctx context.Context, down bool) error {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg.Logger)

	pg, err := store.OpenPostgres(ctx, cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return err
	}
	defer pg.Close()

	n, err := store.Migrate(ctx, pg.DB(), down)
	if err != nil {
		log.Error().Err(err).Msg("Error while applying migrations")
		return err
	}

	log.Info().Int("count", n).Msg("Successfully applied migrations")

	return nil
}
