// Package storage opens the persistence backend selected by the configuration.
package storage

import (
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/profile"
	"github.com/Tawhide16/CampusKit/storage/database"
	"github.com/Tawhide16/CampusKit/storage/database/inmem"
	"github.com/Tawhide16/CampusKit/storage/database/jsonfile"
	"github.com/Tawhide16/CampusKit/storage/database/sqlx"
)

// Backend holds the stores of one storage driver.
type Backend struct {
	Driver   string
	KV       core.KVStore
	Profiles profile.Repository
	close    func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the configured driver. The postgres database and schema are created when missing.
func Open(conf *core.Config) (*Backend, error) {
	switch conf.Storage.Driver {
	case core.StorageMemory:
		db := inmemdb.Open()
		return &Backend{
			Driver:   core.StorageMemory,
			KV:       inmemdb.NewKVStore(db),
			Profiles: inmemdb.NewProfileRepository(db),
		}, nil

	case core.StorageFile:
		kv, err := jsonfiledb.Open(conf.Storage.Dir)
		if err != nil {
			return nil, errors.Wrap(err, "opening file storage")
		}
		return &Backend{
			Driver:   core.StorageFile,
			KV:       kv,
			Profiles: jsonfiledb.NewProfileRepository(kv),
		}, nil

	case core.StoragePostgres:
		if err := database.CreateIfNotExist(conf.Database); err != nil {
			return nil, errors.Wrap(err, "creating database")
		}
		db, err := database.Open(conf.Database)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Backend{
			Driver:   core.StoragePostgres,
			KV:       sqlxrepos.NewKVStore(db),
			Profiles: sqlxrepos.NewProfileRepository(db),
			close:    db.Close,
		}, nil

	default:
		return nil, errors.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
