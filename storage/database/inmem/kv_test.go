package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/profile"
)

func TestKVStore(t *testing.T) {
	kv := NewKVStore(Open())
	ctx := context.Background()

	_, err := kv.Get(ctx, "budgetData")
	assert.Equal(t, core.ErrKeyNotFound, err)

	value := []byte(`{"transactions":[]}`)
	require.NoError(t, kv.Set(ctx, "budgetData", value))
	value[0] = 'x'

	got, err := kv.Get(ctx, "budgetData")
	require.NoError(t, err)
	assert.Equal(t, `{"transactions":[]}`, string(got), "stored values are copies")

	got[0] = 'y'
	again, _ := kv.Get(ctx, "budgetData")
	assert.Equal(t, `{"transactions":[]}`, string(again))
}

func TestProfileRepository(t *testing.T) {
	repo := NewProfileRepository(Open())
	ctx := context.Background()

	_, err := repo.FetchProfile(ctx, "uid-1")
	assert.Equal(t, profile.ErrNotFound, err)

	rec := profile.Record{UID: "uid-1", DisplayName: "Ada"}
	_, err = repo.SaveProfile(ctx, rec)
	require.NoError(t, err)

	got, err := repo.FetchProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}
