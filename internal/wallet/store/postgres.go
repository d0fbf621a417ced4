package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/util"
	dbutil "github/chapool/hd-wallet/internal/util/db"
)

const (
	uniqueViolation        = "23505"
	constraintMnemonicLeaf = "wallets_mnemonic_leaf_key"

	selectColumns = `id, address, leaf, mnemonic, private_key, created_at`
)

// Postgres stores wallet records in the wallets table.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects using the database config and verifies the connection.
func OpenPostgres(ctx context.Context, cfg config.Database) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return NewPostgres(db), nil
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// DB exposes the connection pool for migrations.
func (p *Postgres) DB() *sql.DB {
	return p.db
}

func (p *Postgres) InsertNext(ctx context.Context, mnemonic string, build BuildFunc) (*Record, error) {
	for attempt := 1; attempt <= MaxAllocationAttempts; attempt++ {
		var rec *Record

		err := dbutil.WithTransaction(ctx, p.db, func(tx *sql.Tx) error {
			// Serialises allocations per mnemonic until the transaction ends.
			if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, mnemonic); err != nil {
				return errors.Wrap(err, "failed to acquire allocation lock")
			}

			var next int64
			if err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(leaf) + 1, 0) FROM wallets WHERE mnemonic = $1`, mnemonic,
			).Scan(&next); err != nil {
				return errors.Wrap(err, "failed to compute next leaf")
			}

			var err error
			rec, err = buildRecord(build, mnemonic, uint32(next)) //nolint:gosec // leaves are derived from uint32
			if err != nil {
				return err
			}

			return insertTx(ctx, tx, rec)
		})

		if isLeafConflict(err) {
			util.LogFromContext(ctx).Debug().Int("attempt", attempt).Msg("Leaf allocation conflicted, retrying")
			continue
		}

		if err != nil {
			return nil, mapUniqueViolation(err)
		}

		return rec, nil
	}

	return nil, ErrLeafConflict
}

func (p *Postgres) Insert(ctx context.Context, rec *Record) error {
	err := dbutil.WithTransaction(ctx, p.db, func(tx *sql.Tx) error {
		return insertTx(ctx, tx, rec)
	})

	return mapUniqueViolation(err)
}

func insertTx(ctx context.Context, tx *sql.Tx, rec *Record) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO wallets (address, leaf, mnemonic, private_key) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		rec.Address, int64(rec.Leaf), rec.Mnemonic, rec.PrivateKey,
	).Scan(&rec.ID, &rec.CreatedAt)

	return errors.Wrap(err, "failed to insert wallet")
}

func (p *Postgres) FindByAddress(ctx context.Context, address string) (*Record, error) {
	return p.findOne(ctx, `SELECT `+selectColumns+` FROM wallets WHERE address = $1`, address)
}

func (p *Postgres) FindLatestByMnemonic(ctx context.Context, mnemonic string) (*Record, error) {
	return p.findOne(ctx,
		`SELECT `+selectColumns+` FROM wallets WHERE mnemonic = $1 ORDER BY leaf DESC LIMIT 1`, mnemonic)
}

func (p *Postgres) List(ctx context.Context, limit int, offset int) ([]*Record, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM wallets ORDER BY id ASC LIMIT $1 OFFSET $2`, limit, max(offset, 0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wallets")
	}
	defer rows.Close()

	result := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	return result, errors.Wrap(rows.Err(), "failed to iterate wallets")
}

func (p *Postgres) Ping(ctx context.Context) error {
	return errors.Wrap(p.db.PingContext(ctx), "failed to ping database")
}

func (p *Postgres) Close() error {
	return errors.Wrap(p.db.Close(), "failed to close database")
}

func (p *Postgres) findOne(ctx context.Context, query string, arg string) (*Record, error) {
	rec, err := scanRecord(p.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec  Record
		leaf int64
	)

	if err := row.Scan(&rec.ID, &rec.Address, &leaf, &rec.Mnemonic, &rec.PrivateKey, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to scan wallet")
	}

	rec.Leaf = uint32(leaf) //nolint:gosec // constrained by the leaf check and uint32 derivation

	return &rec, nil
}

func isLeafConflict(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == constraintMnemonicLeaf
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Wrap(ErrDuplicate, pqErr.Constraint)
	}

	return err
}
