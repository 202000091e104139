package inmemdb

import (
	"context"

	"github.com/Tawhide16/CampusKit/core"
)

type kvStore struct {
	db *kvTable
}

var _ core.KVStore = (*kvStore)(nil) // interface compliance check

func NewKVStore(db *DB) core.KVStore {
	return &kvStore{db: db.kv}
}

func (s *kvStore) Get(_ context.Context, key string) ([]byte, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	val, ok := s.db.table[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (s *kvStore) Set(_ context.Context, key string, value []byte) error {
	s.db.Lock()
	defer s.db.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.db.table[key] = cp
	return nil
}
