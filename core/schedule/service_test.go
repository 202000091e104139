package schedule

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/tests"
)

func setup(t *testing.T) (*Service, *core.Storage) {
	store, _ := testutil.NewStorage(t)
	validate, _ := testutil.NewValidator()
	svc := NewService(store, validate)
	svc.nowFunc = func() time.Time { return time.Date(2024, 6, 3, 12, 0, 0, 0, time.Local) }
	return svc, store
}

func checkPersisted(t *testing.T, svc *Service, store *core.Storage) {
	t.Helper()
	assert.Equal(t, svc.QueryAll(), core.Load(store, StorageKey, []Schedule(nil)))
}

func TestService_Add(t *testing.T) {
	tests := []struct {
		name     string
		data     NewSchedule
		wantFlds []string
	}{
		{name: "missing fields", data: NewSchedule{}, wantFlds: []string{"className", "time"}},
		{name: "blank name", data: NewSchedule{ClassName: "  ", Time: "09:00"}, wantFlds: []string{"className"}},
		{name: "bad time", data: NewSchedule{ClassName: "Physics", Time: "9am"}, wantFlds: []string{"time"}},
		{name: "out of range time", data: NewSchedule{ClassName: "Physics", Time: "25:00"}, wantFlds: []string{"time"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setup(t)
			_, err := svc.Add(tt.data)

			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "err = %v", err)
			flds := make([]string, len(vErrs))
			for i, e := range vErrs {
				flds[i] = e.Field()
			}
			assert.ElementsMatch(t, tt.wantFlds, flds)
			assert.Empty(t, svc.QueryAll())
		})
	}

	t.Run("duplicates are allowed", func(t *testing.T) {
		svc, store := setup(t)
		for i := 0; i < 2; i++ {
			_, err := svc.Add(NewSchedule{ClassName: " Physics ", Time: "09:00"})
			require.NoError(t, err)
		}
		assert.Equal(t, []Schedule{{"Physics", "09:00"}, {"Physics", "09:00"}}, svc.QueryAll())
		checkPersisted(t, svc, store)
	})
}

func TestService_UpdateDelete(t *testing.T) {
	svc, store := setup(t)
	for _, name := range []string{"Physics", "Chemistry", "Biology"} {
		_, err := svc.Add(NewSchedule{ClassName: name, Time: "10:00"})
		require.NoError(t, err)
	}

	t.Run("update", func(t *testing.T) {
		items, err := svc.Update(1, NewSchedule{ClassName: "Organic Chemistry", Time: "11:15"})
		require.NoError(t, err)
		assert.Equal(t, Schedule{"Organic Chemistry", "11:15"}, items[1])
		checkPersisted(t, svc, store)
	})

	t.Run("out of range", func(t *testing.T) {
		before := svc.QueryAll()

		_, err := svc.Update(3, NewSchedule{ClassName: "Maths", Time: "08:00"})
		assert.Equal(t, ErrNotFound, err)
		_, err = svc.Delete(-1)
		assert.Equal(t, ErrNotFound, err)

		assert.Equal(t, before, svc.QueryAll())
	})

	t.Run("delete", func(t *testing.T) {
		items, err := svc.Delete(0)
		require.NoError(t, err)
		assert.Equal(t, []Schedule{{"Organic Chemistry", "11:15"}, {"Biology", "10:00"}}, items)
		checkPersisted(t, svc, store)
	})
}

func TestService_Filter(t *testing.T) {
	svc, _ := setup(t)
	for _, s := range []NewSchedule{
		{ClassName: "Physics", Time: "09:00"},
		{ClassName: "Physical Education", Time: "12:00"},
		{ClassName: "Chemistry", Time: "12:01"},
		{ClassName: "Biology", Time: "18:30"},
	} {
		_, err := svc.Add(s)
		require.NoError(t, err)
	}

	names := func(items []Schedule) []string {
		res := make([]string, len(items))
		for i, s := range items {
			res[i] = s.ClassName
		}
		return res
	}

	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{name: "all", filter: QueryFilter{}, want: []string{"Physics", "Physical Education", "Chemistry", "Biology"}},
		{name: "search", filter: QueryFilter{Search: " PHYSIC"}, want: []string{"Physics", "Physical Education"}},
		{name: "upcoming", filter: QueryFilter{Filter: FilterUpcoming}, want: []string{"Chemistry", "Biology"}},
		{name: "upcoming search", filter: QueryFilter{Search: "bio", Filter: "Upcoming"}, want: []string{"Biology"}},
		{name: "no match", filter: QueryFilter{Search: "history"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(svc.Filter(tt.filter)))
		})
	}
}

func TestService_Subscribe(t *testing.T) {
	svc, _ := setup(t)

	var (
		mu     sync.Mutex
		events []core.Event
	)
	cancel := svc.Subscribe(func(evt core.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, evt)
	})

	_, err := svc.Add(NewSchedule{ClassName: "Physics", Time: "09:00"})
	require.NoError(t, err)

	// cancelling while other goroutines mutate must not race with the notification loop
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Add(NewSchedule{ClassName: "Chemistry", Time: "10:00"})
		}()
	}
	cancel()
	wg.Wait()

	mu.Lock()
	got := len(events)
	mu.Unlock()
	assert.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, 5)
	assert.Equal(t, core.Event{Collection: StorageKey, Op: core.OpAdd, Len: 1}, events[0])

	_, err = svc.Add(NewSchedule{ClassName: "Biology", Time: "11:00"})
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, events, got)
}
