package jsonfiledb

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/profile"
)

// profilePrefix keeps profile documents apart from the per-user workspaces.
const profilePrefix = "_profiles/"

type profileRepository struct {
	kv core.KVStore
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

// NewProfileRepository stores one JSON document per uid in kv.
func NewProfileRepository(kv core.KVStore) profile.Repository {
	return &profileRepository{kv: kv}
}

func (repo *profileRepository) FetchProfile(ctx context.Context, uid string) (profile.Record, error) {
	data, err := repo.kv.Get(ctx, profilePrefix+uid)
	if err != nil {
		if errors.Is(err, core.ErrKeyNotFound) {
			return profile.Record{}, profile.ErrNotFound
		}
		return profile.Record{}, errors.Wrap(err, "reading profile")
	}
	var rec profile.Record
	if err = json.Unmarshal(data, &rec); err != nil {
		return profile.Record{}, errors.Wrap(err, "decoding profile")
	}
	return rec, nil
}

func (repo *profileRepository) SaveProfile(ctx context.Context, rec profile.Record) (profile.Record, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return profile.Record{}, errors.Wrap(err, "encoding profile")
	}
	if err = repo.kv.Set(ctx, profilePrefix+rec.UID, data); err != nil {
		return profile.Record{}, errors.Wrap(err, "writing profile")
	}
	return rec, nil
}
