package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github/chapool/hd-wallet/internal/util"
)

// TxFn is executed inside a database transaction by WithTransaction.
type TxFn func(tx *sql.Tx) error

// WithTransaction runs fn in a new transaction and commits it when fn returns nil.
// The transaction is rolled back on error or panic; panics are re-raised after rollback.
func WithTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	return WithConfiguredTransaction(ctx, db, nil, fn)
}

// WithConfiguredTransaction behaves like WithTransaction with custom transaction options.
func WithConfiguredTransaction(ctx context.Context, db *sql.DB, options *sql.TxOptions, fn TxFn) (err error) {
	tx, err := db.BeginTx(ctx, options)
	if err != nil {
		util.LogFromContext(ctx).Warn().Err(err).Msg("Failed to start transaction")
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				util.LogFromContext(ctx).Error().Err(txErr).Msg("Failed to roll back transaction after panic")
			}
			panic(p)
		} else if err != nil {
			if txErr := tx.Rollback(); txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
				util.LogFromContext(ctx).Error().Err(txErr).Msg("Failed to roll back transaction")
			}
		} else {
			if txErr := tx.Commit(); txErr != nil {
				err = errors.Wrap(txErr, "failed to commit transaction")
			}
		}
	}()

	return fn(tx)
}
