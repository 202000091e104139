package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/storage/database/inmem"
)

var ErrWriteFailed = errors.New("write failed")

// LoggerMock records log entries as "LEVEL msg" instead of printing them.
type LoggerMock struct {
	mu      sync.Mutex
	entries []string
}

var _ core.Logger = (*LoggerMock)(nil)

func NewLoggerMock() *LoggerMock { return new(LoggerMock) }

func (l *LoggerMock) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf("%s %s", level, msg))
}

func (l *LoggerMock) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (l *LoggerMock) Debug(msg string, _ ...interface{}) { l.log("DEBUG", msg) }
func (l *LoggerMock) Info(msg string, _ ...interface{})  { l.log("INFO", msg) }
func (l *LoggerMock) Warn(msg string, _ ...interface{})  { l.log("WARN", msg) }
func (l *LoggerMock) Error(msg string, _ ...interface{}) { l.log("ERROR", msg) }
func (l *LoggerMock) Fatal(msg string, _ ...interface{}) { l.log("FATAL", msg) }

// NewValidator returns a validator with the global rules registered.
// Domain packages register theirs on top with their own InitValidators.
func NewValidator() (*validator.Validate, ut.Translator) {
	translator := core.NewTranslator()
	return core.NewValidator(translator), translator
}

// NewStorage returns an in-memory Storage and its backend.
func NewStorage(t *testing.T) (*core.Storage, core.KVStore) {
	t.Helper()
	kv := inmemdb.NewKVStore(inmemdb.Open())
	return core.NewStorage(kv, NewLoggerMock(), 0), kv
}

// ReadKey returns the raw JSON stored under key.
func ReadKey(t *testing.T, kv core.KVStore, key string) []byte {
	t.Helper()
	data, err := kv.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("ReadKey(%q) failed: %v", key, err)
	}
	return data
}

// WriteKey stores raw data under key.
func WriteKey(t *testing.T, kv core.KVStore, key string, data []byte) {
	t.Helper()
	if err := kv.Set(context.Background(), key, data); err != nil {
		t.Fatalf("WriteKey(%q) failed: %v", key, err)
	}
}

// FailingKVStore reads through to an in-memory store but rejects every write.
type FailingKVStore struct {
	core.KVStore
}

func NewFailingKVStore() *FailingKVStore {
	return &FailingKVStore{KVStore: inmemdb.NewKVStore(inmemdb.Open())}
}

func (s *FailingKVStore) Set(context.Context, string, []byte) error {
	return ErrWriteFailed
}
