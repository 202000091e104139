package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core/profile"
)

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) FetchProfile(ctx context.Context, uid string) (profile.Record, error) {
	var rec profile.Record
	q := `SELECT uid, display_name, email, photo_url FROM profile WHERE uid = $1`
	if err := repo.db.GetContext(ctx, &rec, q, uid); err != nil {
		if err == sql.ErrNoRows {
			return profile.Record{}, profile.ErrNotFound
		}
		return profile.Record{}, errors.Wrap(err, "selecting profile")
	}
	return rec, nil
}

func (repo *profileRepository) SaveProfile(ctx context.Context, rec profile.Record) (profile.Record, error) {
	q := `INSERT INTO profile (uid, display_name, email, photo_url)
		VALUES (:uid, :display_name, :email, :photo_url)
		ON CONFLICT (uid) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			photo_url = EXCLUDED.photo_url`
	if _, err := repo.db.NamedExecContext(ctx, q, rec); err != nil {
		return profile.Record{}, errors.Wrap(err, "upserting profile")
	}
	return rec, nil
}
