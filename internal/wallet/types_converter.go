package wallet

import (
	"github/chapool/hd-wallet/internal/wallet/store"
)

// FromRecord creates a Wallet from a stored record.
func FromRecord(rec *store.Record, cfg Config) *Wallet {
	return &Wallet{
		ID:          rec.ID,
		Address:     rec.Address,
		PrivateKey:  rec.PrivateKey,
		Mnemonic:    rec.Mnemonic,
		Leaf:        rec.Leaf,
		ExplorerURL: cfg.addressURL(rec.Address),
		CreatedAt:   rec.CreatedAt,
	}
}

// FromRecords converts a page of records.
func FromRecords(records []*store.Record, cfg Config) []*Wallet {
	result := make([]*Wallet, 0, len(records))
	for _, rec := range records {
		result = append(result, FromRecord(rec, cfg))
	}

	return result
}
