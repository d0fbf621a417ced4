package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
	"github/chapool/hd-wallet/internal/util"
)

// Key layout:
//
//	w/addr/<address>                -> cbor(Record)
//	w/seq/<id uint64 BE>            -> address
//	w/mn/<blake3(mnemonic)>/<leaf>  -> address
var (
	prefixAddress  = []byte("w/addr/")
	prefixSequence = []byte("w/seq/")
	prefixMnemonic = []byte("w/mn/")
	keyIDSequence  = []byte("w/meta/id")
)

const idSequenceBandwidth = 64

// Badger stores wallet records in an embedded badger database.
type Badger struct {
	db  *badger.DB
	ids *badger.Sequence
	enc cbor.EncMode
}

var _ Store = (*Badger)(nil)

// OpenBadger opens (or creates) the database at path. An empty path opens an in-memory database.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger: log.Logger})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, errors.Wrapf(err, "wallet database at %s is locked by another process", path)
		}
		return nil, errors.Wrapf(err, "failed to open badger database at %s", path)
	}

	ids, err := db.GetSequence(keyIDSequence, idSequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to open id sequence")
	}

	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create cbor encoder")
	}

	return &Badger{db: db, ids: ids, enc: enc}, nil
}

func (b *Badger) InsertNext(ctx context.Context, mnemonic string, build BuildFunc) (*Record, error) {
	for attempt := 1; attempt <= MaxAllocationAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var rec *Record

		err := b.db.Update(func(txn *badger.Txn) error {
			latest, err := b.latestLeafKey(txn, mnemonic)
			if err != nil {
				return err
			}

			leaf := uint32(0)
			if latest != nil {
				leaf = leafFromKey(latest) + 1
			}

			rec, err = buildRecord(build, mnemonic, leaf)
			if err != nil {
				return err
			}

			return b.insertTxn(txn, rec)
		})

		if errors.Is(err, badger.ErrConflict) {
			util.LogFromContext(ctx).Debug().Int("attempt", attempt).Msg("Leaf allocation conflicted, retrying")
			continue
		}

		if err != nil {
			return nil, err
		}

		return rec, nil
	}

	return nil, ErrLeafConflict
}

func (b *Badger) Insert(_ context.Context, rec *Record) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return b.insertTxn(txn, rec)
	})
	if errors.Is(err, badger.ErrConflict) {
		return ErrDuplicate
	}

	return err
}

// insertTxn writes rec and its index keys. Reading the target keys first makes two
// transactions writing the same leaf or address conflict on commit.
func (b *Badger) insertTxn(txn *badger.Txn, rec *Record) error {
	addrKey := addressKey(rec.Address)
	leafKey := mnemonicLeafKey(rec.Mnemonic, rec.Leaf)

	for _, key := range [][]byte{addrKey, leafKey} {
		_, err := txn.Get(key)
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return errors.Wrap(err, "failed to read key")
		}
	}

	id, err := b.ids.Next()
	if err != nil {
		return errors.Wrap(err, "failed to allocate record id")
	}

	rec.ID = int64(id + 1) //nolint:gosec // sequence starts at 0 and stays far below MaxInt64
	rec.CreatedAt = time.Now().UTC()

	value, err := b.enc.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "failed to encode record")
	}

	if err := txn.Set(addrKey, value); err != nil {
		return errors.Wrap(err, "failed to write record")
	}

	if err := txn.Set(sequenceKey(id), []byte(rec.Address)); err != nil {
		return errors.Wrap(err, "failed to write sequence index")
	}

	if err := txn.Set(leafKey, []byte(rec.Address)); err != nil {
		return errors.Wrap(err, "failed to write mnemonic index")
	}

	return nil
}

func (b *Badger) FindByAddress(_ context.Context, address string) (*Record, error) {
	var rec *Record

	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = b.load(txn, []byte(address))
		return err
	})

	return rec, err
}

func (b *Badger) FindLatestByMnemonic(_ context.Context, mnemonic string) (*Record, error) {
	var rec *Record

	err := b.db.View(func(txn *badger.Txn) error {
		key, err := b.latestLeafKey(txn, mnemonic)
		if err != nil {
			return err
		}
		if key == nil {
			return ErrNotFound
		}

		item, err := txn.Get(key)
		if err != nil {
			return errors.Wrap(err, "failed to read mnemonic index")
		}

		address, err := item.ValueCopy(nil)
		if err != nil {
			return errors.Wrap(err, "failed to read mnemonic index")
		}

		rec, err = b.load(txn, address)
		return err
	})

	return rec, err
}

func (b *Badger) List(_ context.Context, limit int, offset int) ([]*Record, error) {
	result := []*Record{}
	if limit <= 0 {
		return result, nil
	}

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixSequence

		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		for it.Rewind(); it.Valid() && len(result) < limit; it.Next() {
			if skipped < offset {
				skipped++
				continue
			}

			address, err := it.Item().ValueCopy(nil)
			if err != nil {
				return errors.Wrap(err, "failed to read sequence index")
			}

			rec, err := b.load(txn, address)
			if err != nil {
				return err
			}

			result = append(result, rec)
		}

		return nil
	})

	return result, err
}

func (b *Badger) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger database is closed")
	}

	return nil
}

func (b *Badger) Close() error {
	if err := b.ids.Release(); err != nil {
		log.Warn().Err(err).Msg("Failed to release id sequence")
	}

	return errors.Wrap(b.db.Close(), "failed to close badger database")
}

func (b *Badger) load(txn *badger.Txn, address []byte) (*Record, error) {
	item, err := txn.Get(addressKey(string(address)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read record")
	}

	var rec Record
	if err := item.Value(func(val []byte) error {
		return cbor.Unmarshal(val, &rec)
	}); err != nil {
		return nil, errors.Wrap(err, "failed to decode record")
	}

	return &rec, nil
}

// latestLeafKey returns the index key with the highest leaf of mnemonic, or nil.
func (b *Badger) latestLeafKey(txn *badger.Txn, mnemonic string) ([]byte, error) {
	prefix := mnemonicPrefix(mnemonic)

	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	seek := append(bytes.Clone(prefix), 0xff, 0xff, 0xff, 0xff, 0xff)
	it.Seek(seek)

	if !it.ValidForPrefix(prefix) {
		return nil, nil
	}

	return it.Item().KeyCopy(nil), nil
}

func addressKey(address string) []byte {
	return append(bytes.Clone(prefixAddress), address...)
}

func sequenceKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64(bytes.Clone(prefixSequence), id)
}

func mnemonicPrefix(mnemonic string) []byte {
	digest := blake3.Sum256([]byte(mnemonic))

	key := append(bytes.Clone(prefixMnemonic), digest[:]...)
	return append(key, '/')
}

func mnemonicLeafKey(mnemonic string, leaf uint32) []byte {
	return binary.BigEndian.AppendUint32(mnemonicPrefix(mnemonic), leaf)
}

func leafFromKey(key []byte) uint32 {
	const leafLength = 4
	return binary.BigEndian.Uint32(key[len(key)-leafLength:])
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Str("component", "badger").Msg(trimNewline(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Str("component", "badger").Msg(trimNewline(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Str("component", "badger").Msg(trimNewline(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Str("component", "badger").Msg(trimNewline(fmt.Sprintf(format, args...)))
}

func trimNewline(s string) string {
	return strings.TrimRight(s, "\n")
}
