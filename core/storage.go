package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrKeyNotFound = errors.New("key not found")

// KVStore is a durable key/value backend holding JSON documents.
type KVStore interface {
	// Get returns ErrKeyNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Storage is the load/save boundary every feature persists through.
// Saves overwrite unconditionally (last writer wins) and never fail the caller:
// errors are logged and dropped since the store is a best-effort cache.
type Storage struct {
	kv      KVStore
	logger  Logger
	prefix  string
	timeout time.Duration
}

func NewStorage(kv KVStore, logger Logger, timeout time.Duration) *Storage {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Storage{kv: kv, logger: logger, timeout: timeout}
}

// Namespace returns a Storage sharing the same backend whose keys live under ns.
func (s *Storage) Namespace(ns string) *Storage {
	ns = strings.Trim(ns, "/")
	if ns == "" {
		return s
	}
	cp := *s
	cp.prefix = s.prefix + ns + "/"
	return &cp
}

func (s *Storage) Key(key string) string { return s.prefix + key }

func (s *Storage) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Raw returns the stored bytes under key.
func (s *Storage) Raw(key string) ([]byte, error) {
	ctx, cancel := s.context()
	defer cancel()
	return s.kv.Get(ctx, s.Key(key))
}

// Save serializes value to JSON and writes it under key.
func (s *Storage) Save(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("storage: encoding "+s.Key(key), err)
		return
	}
	ctx, cancel := s.context()
	defer cancel()
	if err = s.kv.Set(ctx, s.Key(key), data); err != nil {
		s.logger.Warn("storage: writing "+s.Key(key), err)
	}
}

// Load returns the value stored under key, or fallback if it is missing or unparseable.
func Load[T any](s *Storage, key string, fallback T) T {
	data, err := s.Raw(key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("storage: reading "+s.Key(key), err)
		}
		return fallback
	}
	var v T
	if err = json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("storage: corrupt value under "+s.Key(key), err)
		return fallback
	}
	return v
}
