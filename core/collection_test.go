package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/tests"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

const itemsKey = "items"

func newCollection(t *testing.T) (*core.Collection[int, item], *core.Storage) {
	store, _ := testutil.NewStorage(t)
	nextID := 0
	coll := core.NewCollection(core.Load(store, itemsKey, []item{}), core.CollectionOptions[int, item]{
		Name: itemsKey,
		ID:   func(it item) int { return it.ID },
		AssignID: func(it item) item {
			nextID++
			it.ID = nextID
			return it
		},
		Save: func(items []item) { store.Save(itemsKey, items) },
	})
	return coll, store
}

func checkPersisted(t *testing.T, coll *core.Collection[int, item], store *core.Storage) {
	t.Helper()
	assert.Equal(t, coll.Items(), core.Load(store, itemsKey, []item(nil)))
}

func TestCollection_WriteAfterMutation(t *testing.T) {
	coll, store := newCollection(t)

	steps := []func(){
		func() { coll.Add(item{Name: "a"}) },
		func() { coll.Add(item{Name: "b"}) },
		func() { coll.Remove(1) },
		func() { coll.Add(item{Name: "c"}) },
		func() { coll.Prepend(item{ID: 10, Name: "z"}) },
		func() { coll.Update(3, func(it item) item { it.Name = "C"; return it }) },
		func() { coll.RemoveAt(0) },
		func() { coll.Remove(2) },
	}
	for _, step := range steps {
		step()
		checkPersisted(t, coll, store)
	}
	assert.Equal(t, []item{{ID: 3, Name: "C"}}, coll.Items())
}

func TestCollection_Add(t *testing.T) {
	coll, _ := newCollection(t)

	items := coll.Add(item{Name: "a"})
	assert.Equal(t, []item{{ID: 1, Name: "a"}}, items)
	items = coll.Add(item{ID: 99, Name: "b"})
	assert.Equal(t, []item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, items, "ids are always assigned")
	assert.Equal(t, 2, coll.Len())

	got, ok := coll.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "b", got.Name)
	_, ok = coll.Get(3)
	assert.False(t, ok)
}

func TestCollection_CopyOnWrite(t *testing.T) {
	coll, _ := newCollection(t)
	coll.Add(item{Name: "a"})

	snapshot := coll.Items()
	snapshot[0].Name = "mutated"
	got, _ := coll.Get(1)
	assert.Equal(t, "a", got.Name, "callers cannot mutate the collection")

	before := coll.Items()
	coll.Update(1, func(it item) item { it.Name = "b"; return it })
	assert.Equal(t, "a", before[0].Name, "earlier snapshots are left untouched")
}

func TestCollection_NoOps(t *testing.T) {
	var events []core.Event
	coll, store := newCollection(t)
	coll.Add(item{Name: "a"})
	coll.Subscribe(func(evt core.Event) { events = append(events, evt) })
	raw, err := store.Raw(itemsKey)
	require.NoError(t, err)

	tests := []struct {
		name string
		op   func() ([]item, bool)
	}{
		{name: "update unknown id", op: func() ([]item, bool) {
			return coll.Update(42, func(it item) item { it.Name = "x"; return it })
		}},
		{name: "remove unknown id", op: func() ([]item, bool) { return coll.Remove(42) }},
		{name: "update out of range", op: func() ([]item, bool) {
			return coll.UpdateAt(1, func(it item) item { return it })
		}},
		{name: "remove out of range", op: func() ([]item, bool) { return coll.RemoveAt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := tt.op()
			assert.False(t, ok)
			assert.Equal(t, []item{{ID: 1, Name: "a"}}, items)

			after, err := store.Raw(itemsKey)
			require.NoError(t, err)
			assert.Equal(t, raw, after, "nothing is written")
		})
	}
	assert.Empty(t, events, "nothing is notified")
}

func TestCollection_List(t *testing.T) {
	coll, _ := newCollection(t)
	for _, name := range []string{"b", "c", "a", "cc"} {
		coll.Add(item{Name: name})
	}

	assert.Equal(t, coll.Items(), coll.List(nil, nil), "insertion order by default")

	long := func(it item) bool { return len(it.Name) == 1 }
	assert.Equal(t, []item{{1, "b"}, {2, "c"}, {3, "a"}}, coll.List(long, nil))

	byName := func(a, b item) bool { return a.Name < b.Name }
	assert.Equal(t, []item{{3, "a"}, {1, "b"}, {2, "c"}}, coll.List(long, byName))
}

func TestCollection_ReplaceAndPrepend(t *testing.T) {
	coll, store := newCollection(t)
	coll.Add(item{Name: "a"})

	coll.Prepend(item{ID: 7, Name: "x"}, item{ID: 8, Name: "y"})
	assert.Equal(t, []item{{7, "x"}, {8, "y"}, {1, "a"}}, coll.Items())

	coll.Replace([]item{{ID: 5, Name: "r"}})
	assert.Equal(t, []item{{5, "r"}}, coll.Items())
	checkPersisted(t, coll, store)

	data, err := store.Raw(itemsKey)
	require.NoError(t, err)
	var stored []item
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, []item{{5, "r"}}, stored)
}

func TestCollection_Subscribe(t *testing.T) {
	coll, _ := newCollection(t)

	var first, second []core.Event
	cancelFirst := coll.Subscribe(func(evt core.Event) { first = append(first, evt) })
	coll.Subscribe(func(evt core.Event) { second = append(second, evt) })

	coll.Add(item{Name: "a"})
	cancelFirst()
	coll.Add(item{Name: "b"})
	coll.Remove(1)

	assert.Equal(t, []core.Event{{Collection: itemsKey, Op: core.OpAdd, Len: 1}}, first)
	assert.Equal(t, []core.Event{
		{Collection: itemsKey, Op: core.OpAdd, Len: 1},
		{Collection: itemsKey, Op: core.OpAdd, Len: 2},
		{Collection: itemsKey, Op: core.OpRemove, Len: 1},
	}, second)
}
