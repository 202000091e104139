// Package jsonfiledb keeps each key as a JSON document on disk, mirroring browser local storage.
package jsonfiledb

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core"
)

const fileExt = ".json"

type kvStore struct {
	dir string
	mu  sync.RWMutex
}

var _ core.KVStore = (*kvStore)(nil) // interface compliance check

// Open returns a store rooted at dir, creating it if needed.
func Open(dir string) (core.KVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating storage dir")
	}
	return &kvStore{dir: dir}, nil
}

// path maps a key to its file. Namespace separators become sub-directories.
// Every segment stays a plain name inside dir: a leading dot is escaped so "." and ".."
// never walk the tree, and an empty segment maps to "%", which escaping never produces.
func (s *kvStore) path(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		p = url.PathEscape(p)
		switch {
		case p == "":
			p = "%"
		case strings.HasPrefix(p, "."):
			p = "%2E" + p[1:]
		}
		parts[i] = p
	}
	parts[len(parts)-1] += fileExt
	return filepath.Join(append([]string{s.dir}, parts...)...)
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "reading "+key)
	}
	return data, nil
}

// Set writes to a temp file first so a crash never leaves a half-written value.
func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating namespace dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing "+key)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing "+key)
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "replacing "+key)
}
