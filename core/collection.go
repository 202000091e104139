package core

import "sort"

// Collection operations reported to observers.
const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpRemove  = "remove"
	OpPrepend = "prepend"
	OpReplace = "replace"
)

// Event is emitted after a Collection mutation has been applied and saved.
type Event struct {
	Collection string
	Op         string
	Len        int
}

type Observer func(Event)

type CollectionOptions[K comparable, T any] struct {
	Name string
	// ID extracts an entity's identifier. Required for the ID-based operations.
	ID func(T) K
	// AssignID returns a copy of the entity carrying a fresh identifier.
	AssignID func(T) T
	// Save persists the whole collection; called after every mutation.
	Save func([]T)
}

// Collection is the in-memory list of one feature's entities, mirrored to storage on every change.
// Mutations never modify a slice handed out to callers: each one builds a new slice and swaps it in.
// Collection is not safe for concurrent use; the owning service serializes access.
type Collection[K comparable, T any] struct {
	opts      CollectionOptions[K, T]
	items     []T
	observers map[int]Observer
	nextObs   int
}

func NewCollection[K comparable, T any](items []T, opts CollectionOptions[K, T]) *Collection[K, T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &Collection[K, T]{
		opts:      opts,
		items:     items,
		observers: make(map[int]Observer),
	}
}

// Subscribe registers an observer and returns a func removing it.
func (c *Collection[K, T]) Subscribe(obs Observer) (cancel func()) {
	id := c.nextObs
	c.nextObs++
	c.observers[id] = obs
	return func() { delete(c.observers, id) }
}

func (c *Collection[K, T]) commit(op string, next []T) []T {
	c.items = next
	if c.opts.Save != nil {
		c.opts.Save(c.Items())
	}
	evt := Event{Collection: c.opts.Name, Op: op, Len: len(next)}
	for _, obs := range c.observers {
		obs(evt)
	}
	return c.Items()
}

func (c *Collection[K, T]) index(id K) int {
	for i, item := range c.items {
		if c.opts.ID(item) == id {
			return i
		}
	}
	return -1
}

// Items returns a copy of the collection in insertion order.
func (c *Collection[K, T]) Items() []T {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Collection[K, T]) Len() int { return len(c.items) }

func (c *Collection[K, T]) Get(id K) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *Collection[K, T]) At(i int) (T, bool) {
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Add appends item, with a fresh identifier when the collection assigns them.
func (c *Collection[K, T]) Add(item T) []T {
	if c.opts.AssignID != nil {
		item = c.opts.AssignID(item)
	}
	next := make([]T, 0, len(c.items)+1)
	next = append(next, c.items...)
	next = append(next, item)
	return c.commit(OpAdd, next)
}

// Prepend inserts items, in order, ahead of the existing ones.
func (c *Collection[K, T]) Prepend(items ...T) []T {
	next := make([]T, 0, len(c.items)+len(items))
	next = append(next, items...)
	next = append(next, c.items...)
	return c.commit(OpPrepend, next)
}

// Replace swaps the whole collection.
func (c *Collection[K, T]) Replace(items []T) []T {
	next := make([]T, len(items))
	copy(next, items)
	return c.commit(OpReplace, next)
}

// Update replaces the entity matching id with patch(entity). No-op if id is unknown.
func (c *Collection[K, T]) Update(id K, patch func(T) T) ([]T, bool) {
	return c.UpdateAt(c.index(id), patch)
}

func (c *Collection[K, T]) UpdateAt(i int, patch func(T) T) ([]T, bool) {
	if i < 0 || i >= len(c.items) {
		return c.Items(), false
	}
	next := c.Items()
	next[i] = patch(next[i])
	return c.commit(OpUpdate, next), true
}

// Remove filters out the entity matching id. No-op if absent.
func (c *Collection[K, T]) Remove(id K) ([]T, bool) {
	return c.RemoveAt(c.index(id))
}

func (c *Collection[K, T]) RemoveAt(i int) ([]T, bool) {
	if i < 0 || i >= len(c.items) {
		return c.Items(), false
	}
	next := make([]T, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	return c.commit(OpRemove, next), true
}

// List returns the entities matching pred (all when nil), sorted with less when given.
func (c *Collection[K, T]) List(pred func(T) bool, less func(a, b T) bool) []T {
	items := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if pred == nil || pred(item) {
			items = append(items, item)
		}
	}
	if less != nil {
		sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	}
	return items
}
