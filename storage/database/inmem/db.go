package inmemdb

import (
	"sync"

	"github.com/Tawhide16/CampusKit/core/profile"
)

type (
	DB struct {
		kv      *kvTable
		profile *profileTable
	}

	kvTable struct {
		sync.RWMutex
		table map[string][]byte
	}

	profileTable struct {
		sync.RWMutex
		table map[string]*profile.Record
	}
)

func Open() *DB {
	return &DB{
		kv:      &kvTable{table: make(map[string][]byte)},
		profile: &profileTable{table: make(map[string]*profile.Record)},
	}
}
