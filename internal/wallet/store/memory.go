package store

import (
	"context"
	"sync"
	"time"
)

type leafKey struct {
	mnemonic string
	leaf     uint32
}

// Memory is a process local store for tests and ephemeral runs.
type Memory struct {
	mu        sync.RWMutex
	records   []*Record
	byAddress map[string]*Record
	byLeaf    map[leafKey]*Record
	latest    map[string]*Record
	nextID    int64
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		byAddress: make(map[string]*Record),
		byLeaf:    make(map[leafKey]*Record),
		latest:    make(map[string]*Record),
		nextID:    1,
	}
}

func (m *Memory) InsertNext(_ context.Context, mnemonic string, build BuildFunc) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := buildRecord(build, mnemonic, NextLeaf(m.latest[mnemonic]))
	if err != nil {
		return nil, err
	}

	if err := m.insertLocked(rec); err != nil {
		return nil, err
	}

	return copyRecord(rec), nil
}

func (m *Memory) Insert(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyRecord(rec)
	if err := m.insertLocked(stored); err != nil {
		return err
	}

	rec.ID = stored.ID
	rec.CreatedAt = stored.CreatedAt

	return nil
}

func (m *Memory) insertLocked(rec *Record) error {
	if _, ok := m.byAddress[rec.Address]; ok {
		return ErrDuplicate
	}

	key := leafKey{mnemonic: rec.Mnemonic, leaf: rec.Leaf}
	if _, ok := m.byLeaf[key]; ok {
		return ErrDuplicate
	}

	rec.ID = m.nextID
	m.nextID++
	rec.CreatedAt = time.Now().UTC()

	m.records = append(m.records, rec)
	m.byAddress[rec.Address] = rec
	m.byLeaf[key] = rec

	if latest, ok := m.latest[rec.Mnemonic]; !ok || rec.Leaf > latest.Leaf {
		m.latest[rec.Mnemonic] = rec
	}

	return nil
}

func (m *Memory) FindByAddress(_ context.Context, address string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byAddress[address]
	if !ok {
		return nil, ErrNotFound
	}

	return copyRecord(rec), nil
}

func (m *Memory) FindLatestByMnemonic(_ context.Context, mnemonic string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.latest[mnemonic]
	if !ok {
		return nil, ErrNotFound
	}

	return copyRecord(rec), nil
}

func (m *Memory) List(_ context.Context, limit int, offset int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	offset = max(offset, 0)
	if offset >= len(m.records) || limit <= 0 {
		return []*Record{}, nil
	}

	end := min(offset+limit, len(m.records))
	result := make([]*Record, 0, end-offset)

	for _, rec := range m.records[offset:end] {
		result = append(result, copyRecord(rec))
	}

	return result, nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func copyRecord(rec *Record) *Record {
	c := *rec
	return &c
}
