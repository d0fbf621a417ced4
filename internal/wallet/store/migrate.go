package store

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github/chapool/hd-wallet/internal/util"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationTable = "migrations"

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate applies all pending migrations. With down set, it reverts the most recent one.
func Migrate(ctx context.Context, db *sql.DB, down bool) (int, error) {
	migrate.SetTable(migrationTable)

	var (
		n   int
		err error
	)

	if down {
		n, err = migrate.ExecMax(db, "postgres", migrationSource(), migrate.Down, 1)
	} else {
		n, err = migrate.Exec(db, "postgres", migrationSource(), migrate.Up)
	}

	if err != nil {
		return n, errors.Wrap(err, "failed to apply migrations")
	}

	util.LogFromContext(ctx).Info().Int("applied", n).Bool("down", down).Msg("Applied migrations")

	return n, nil
}
