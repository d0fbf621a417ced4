// Package store persists wallet records and allocates leaf indices per mnemonic.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// MaxAllocationAttempts bounds how often InsertNext retries a conflicting leaf allocation.
const MaxAllocationAttempts = 5

var (
	ErrNotFound     = errors.New("wallet record not found")
	ErrDuplicate    = errors.New("wallet record already exists")
	ErrLeafConflict = errors.New("leaf allocation kept conflicting")
)

// Record is a persisted wallet. Records are never updated or deleted.
type Record struct {
	ID         int64     `cbor:"1,keyasint" json:"id"`
	Address    string    `cbor:"2,keyasint" json:"address"`
	Leaf       uint32    `cbor:"3,keyasint" json:"leaf"`
	Mnemonic   string    `cbor:"4,keyasint" json:"mnemonic"`
	PrivateKey string    `cbor:"5,keyasint" json:"private_key"`
	CreatedAt  time.Time `cbor:"6,keyasint" json:"created_at"`
}

// BuildFunc derives the record for a freshly allocated leaf. It only has to fill Address
// and PrivateKey; the store sets Mnemonic and Leaf.
type BuildFunc func(leaf uint32) (*Record, error)

// Store is the wallet persistence contract shared by all backends.
type Store interface {
	// InsertNext allocates the next leaf of mnemonic, builds the record and inserts it
	// atomically. Concurrent calls for one mnemonic never receive the same leaf.
	InsertNext(ctx context.Context, mnemonic string, build BuildFunc) (*Record, error)

	// Insert stores a complete record. ErrDuplicate on address or (mnemonic, leaf) conflicts.
	Insert(ctx context.Context, rec *Record) error

	// FindByAddress returns ErrNotFound when no record has address.
	FindByAddress(ctx context.Context, address string) (*Record, error)

	// FindLatestByMnemonic returns the record with the highest leaf, or ErrNotFound.
	FindLatestByMnemonic(ctx context.Context, mnemonic string) (*Record, error)

	// List returns records in creation order.
	List(ctx context.Context, limit int, offset int) ([]*Record, error)

	Ping(ctx context.Context) error
	Close() error
}

// NextLeaf returns the leaf following latest, or 0 for a mnemonic without records.
func NextLeaf(latest *Record) uint32 {
	if latest == nil {
		return 0
	}

	return latest.Leaf + 1
}

// buildRecord runs build and stamps the allocation onto its result.
func buildRecord(build BuildFunc, mnemonic string, leaf uint32) (*Record, error) {
	rec, err := build(leaf)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		return nil, errors.New("build returned no record")
	}

	rec.Mnemonic = mnemonic
	rec.Leaf = leaf

	return rec, nil
}
