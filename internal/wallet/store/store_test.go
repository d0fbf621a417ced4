package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/wallet/store"
)

const testMnemonic = "test test test test test test test test test test test junk"

func fakeBuild(mnemonic string) store.BuildFunc {
	return func(leaf uint32) (*store.Record, error) {
		return &store.Record{
			Address:    fmt.Sprintf("0x%040x", len(mnemonic)*1_000_000+int(leaf)),
			PrivateKey: fmt.Sprintf("%064x", leaf),
		}, nil
	}
}

type storeFactory func(t *testing.T) store.Store

func backends(t *testing.T) map[string]storeFactory {
	t.Helper()

	result := map[string]storeFactory{
		"memory": func(t *testing.T) store.Store {
			t.Helper()
			return store.NewMemory()
		},
		"badger": func(t *testing.T) store.Store {
			t.Helper()
			s, err := store.OpenBadger("")
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}

	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		result["postgres"] = func(t *testing.T) store.Store {
			t.Helper()

			db, err := sql.Open("postgres", dsn)
			require.NoError(t, err)

			ctx := context.Background()
			_, err = store.Migrate(ctx, db, false)
			require.NoError(t, err)
			_, err = db.ExecContext(ctx, `TRUNCATE wallets RESTART IDENTITY`)
			require.NoError(t, err)

			s := store.NewPostgres(db)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}
	}

	return result
}

func TestNextLeaf(t *testing.T) {
	assert.Equal(t, uint32(0), store.NextLeaf(nil))
	assert.Equal(t, uint32(4), store.NextLeaf(&store.Record{Leaf: 3}))
}

func TestInsertNextAllocatesSequentialLeaves(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			for i := 0; i < 3; i++ {
				rec, err := s.InsertNext(ctx, testMnemonic, fakeBuild(testMnemonic))
				require.NoError(t, err)
				assert.Equal(t, uint32(i), rec.Leaf)
				assert.Equal(t, testMnemonic, rec.Mnemonic)
				assert.NotZero(t, rec.ID)
				assert.False(t, rec.CreatedAt.IsZero())
			}

			other := "other phrase"
			rec, err := s.InsertNext(ctx, other, fakeBuild(other))
			require.NoError(t, err)
			assert.Equal(t, uint32(0), rec.Leaf)

			latest, err := s.FindLatestByMnemonic(ctx, testMnemonic)
			require.NoError(t, err)
			assert.Equal(t, uint32(2), latest.Leaf)

			_, err = s.FindLatestByMnemonic(ctx, "unknown phrase")
			require.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestInsertNextConcurrent(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			const workers = 4

			var wg sync.WaitGroup
			leaves := make(chan uint32, workers)
			errs := make(chan error, workers)

			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()

					rec, err := s.InsertNext(ctx, testMnemonic, fakeBuild(testMnemonic))
					if err != nil {
						errs <- err
						return
					}
					leaves <- rec.Leaf
				}()
			}

			wg.Wait()
			close(leaves)
			close(errs)

			for err := range errs {
				// Badger may exhaust its retries under contention; it must never hand out a leaf twice.
				require.ErrorIs(t, err, store.ErrLeafConflict)
			}

			seen := map[uint32]bool{}
			for leaf := range leaves {
				assert.False(t, seen[leaf], "leaf %d allocated twice", leaf)
				seen[leaf] = true
			}

			for leaf := range seen {
				assert.Less(t, leaf, uint32(len(seen)))
			}
		})
	}
}

func TestInsertNextBuildFailureStoresNothing(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			buildErr := errors.New("derivation failed")
			_, err := s.InsertNext(ctx, testMnemonic, func(uint32) (*store.Record, error) {
				return nil, buildErr
			})
			require.ErrorIs(t, err, buildErr)

			_, err = s.FindLatestByMnemonic(ctx, testMnemonic)
			require.ErrorIs(t, err, store.ErrNotFound)

			records, err := s.List(ctx, 10, 0)
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestInsertAndFind(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			rec := &store.Record{
				Address:    "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
				Leaf:       0,
				Mnemonic:   testMnemonic,
				PrivateKey: "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
			}
			require.NoError(t, s.Insert(ctx, rec))
			assert.NotZero(t, rec.ID)

			found, err := s.FindByAddress(ctx, rec.Address)
			require.NoError(t, err)
			assert.Equal(t, rec.Address, found.Address)
			assert.Equal(t, rec.PrivateKey, found.PrivateKey)
			assert.Equal(t, rec.Mnemonic, found.Mnemonic)
			assert.Equal(t, rec.Leaf, found.Leaf)

			_, err = s.FindByAddress(ctx, "0x0000000000000000000000000000000000000000")
			require.ErrorIs(t, err, store.ErrNotFound)

			dup := *rec
			require.ErrorIs(t, s.Insert(ctx, &dup), store.ErrDuplicate)

			sameLeaf := *rec
			sameLeaf.Address = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
			require.ErrorIs(t, s.Insert(ctx, &sameLeaf), store.ErrDuplicate)

			next, err := s.InsertNext(ctx, testMnemonic, fakeBuild(testMnemonic))
			require.NoError(t, err)
			assert.Equal(t, uint32(1), next.Leaf)
		})
	}
}

func TestList(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			for i := 0; i < 5; i++ {
				_, err := s.InsertNext(ctx, testMnemonic, fakeBuild(testMnemonic))
				require.NoError(t, err)
			}

			records, err := s.List(ctx, 2, 0)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, uint32(0), records[0].Leaf)
			assert.Equal(t, uint32(1), records[1].Leaf)

			records, err = s.List(ctx, 10, 3)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, uint32(3), records[0].Leaf)

			records, err = s.List(ctx, 10, 10)
			require.NoError(t, err)
			assert.Empty(t, records)

			require.NoError(t, s.Ping(ctx))
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Wallet.StoreDriver = config.StoreDriverMemory

	s, err := store.Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, s)

	cfg.Wallet.StoreDriver = config.StoreDriverBadger
	cfg.Wallet.BadgerPath = t.TempDir()

	s, err = store.Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.Badger{}, s)
	require.NoError(t, s.Close())

	cfg.Wallet.StoreDriver = "mysql"
	_, err = store.Open(ctx, cfg)
	require.Error(t, err)
}
