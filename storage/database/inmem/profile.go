package inmemdb

import (
	"context"

	"github.com/Tawhide16/CampusKit/core/profile"
)

type profileRepository struct {
	db *profileTable
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) FetchProfile(_ context.Context, uid string) (profile.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[uid]; ok {
		return *rec, nil
	}
	return profile.Record{}, profile.ErrNotFound
}

func (repo *profileRepository) SaveProfile(_ context.Context, rec profile.Record) (profile.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[rec.UID] = &rec
	return rec, nil
}
