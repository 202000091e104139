package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/tests"
)

type settings struct {
	Shuffle bool `json:"shuffle"`
}

func TestStorage_Load(t *testing.T) {
	fallback := settings{Shuffle: true}

	tests := []struct {
		name     string
		stored   string
		want     settings
		wantWarn bool
	}{
		{name: "missing", want: fallback},
		{name: "stored", stored: `{"shuffle": false}`, want: settings{}},
		{name: "corrupt", stored: `{"shuffle": `, want: fallback, wantWarn: true},
		{name: "wrong shape", stored: `[1, 2]`, want: fallback, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testutil.NewLoggerMock()
			kv := testutil.NewFailingKVStore()
			store := core.NewStorage(kv, logger, 0)
			if tt.stored != "" {
				testutil.WriteKey(t, kv.KVStore, "qa-settings-v1", []byte(tt.stored))
			}

			assert.Equal(t, tt.want, core.Load(store, "qa-settings-v1", fallback))
			if tt.wantWarn {
				assert.Equal(t, []string{"WARN storage: corrupt value under qa-settings-v1"}, logger.Entries())
			} else {
				assert.Empty(t, logger.Entries())
			}
		})
	}
}

func TestStorage_Save(t *testing.T) {
	t.Run("overwrites", func(t *testing.T) {
		store, kv := testutil.NewStorage(t)
		store.Save("classSchedules", []string{"a"})
		store.Save("classSchedules", []string{"b"})
		assert.JSONEq(t, `["b"]`, string(testutil.ReadKey(t, kv, "classSchedules")))
	})

	t.Run("write failure is logged", func(t *testing.T) {
		logger := testutil.NewLoggerMock()
		store := core.NewStorage(testutil.NewFailingKVStore(), logger, 0)

		assert.NotPanics(t, func() { store.Save("classSchedules", []string{"a"}) })
		assert.Equal(t, []string{"WARN storage: writing classSchedules"}, logger.Entries())
	})

	t.Run("encoding failure is logged", func(t *testing.T) {
		logger := testutil.NewLoggerMock()
		store := core.NewStorage(testutil.NewFailingKVStore(), logger, 0)

		store.Save("budgetData", math.Inf(1))
		assert.Equal(t, []string{"WARN storage: encoding budgetData"}, logger.Entries())
	})
}

func TestStorage_Namespace(t *testing.T) {
	store, kv := testutil.NewStorage(t)
	alice := store.Namespace("alice")
	bob := store.Namespace("/bob/")

	alice.Save("studyGoals", []string{"alice"})
	bob.Save("studyGoals", []string{"bob"})
	store.Save("studyGoals", []string{"shared"})

	assert.Equal(t, "alice/studyGoals", alice.Key("studyGoals"))
	assert.Equal(t, "alice/nested/studyGoals", alice.Namespace("nested").Key("studyGoals"))
	assert.Same(t, store, store.Namespace(""))

	assert.Equal(t, []string{"alice"}, core.Load(alice, "studyGoals", []string(nil)))
	assert.Equal(t, []string{"bob"}, core.Load(bob, "studyGoals", []string(nil)))
	assert.JSONEq(t, `["shared"]`, string(testutil.ReadKey(t, kv, "studyGoals")))
}
