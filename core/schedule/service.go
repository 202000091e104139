package schedule

import (
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
)

var ErrNotFound = errors.New("schedule not found")

type Service struct {
	mu       sync.RWMutex
	coll     *core.Collection[int, Schedule]
	validate *validator.Validate
	nowFunc  func() time.Time
}

// NewService loads the schedules from store; every change is written back under StorageKey.
func NewService(store *core.Storage, validate *validator.Validate) *Service {
	items := core.Load(store, StorageKey, []Schedule{})
	return &Service{
		coll: core.NewCollection(items, core.CollectionOptions[int, Schedule]{
			Name: StorageKey,
			Save: func(items []Schedule) { store.Save(StorageKey, items) },
		}),
		validate: validate,
		nowFunc:  time.Now,
	}
}

func (svc *Service) Subscribe(obs core.Observer) func() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	cancel := svc.coll.Subscribe(obs)
	return func() {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		cancel()
	}
}

func (svc *Service) Add(ns NewSchedule) ([]Schedule, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return nil, err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.coll.Add(Schedule(ns)), nil
}

func (svc *Service) Update(index int, ns NewSchedule) ([]Schedule, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return nil, err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	items, ok := svc.coll.UpdateAt(index, func(Schedule) Schedule { return Schedule(ns) })
	if !ok {
		return items, ErrNotFound
	}
	return items, nil
}

func (svc *Service) Delete(index int) ([]Schedule, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	items, ok := svc.coll.RemoveAt(index)
	if !ok {
		return items, ErrNotFound
	}
	return items, nil
}

func (svc *Service) QueryAll() []Schedule {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.coll.Items()
}

func (svc *Service) Filter(filter QueryFilter) []Schedule {
	filter.Clean()
	now := svc.nowFunc()

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.coll.List(func(s Schedule) bool { return filter.Match(s, now) }, nil)
}
