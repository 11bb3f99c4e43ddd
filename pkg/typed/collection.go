// Package typed provides type-safe repositories on top of a core.Store.
//
// A Collection owns one key holding a JSON array of entities; a Value owns one
// key holding a single JSON document. Both keep an in-memory copy that is only
// replaced after the store accepted the new value.
package typed

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/studyhub/pkg/core"
)

// Entity is a record addressed by a stable id.
type Entity interface {
	EntityID() string
}

// EntityPtr is the pointer form of an entity, able to receive an id.
type EntityPtr[T any] interface {
	*T
	Entity
	SetEntityID(id string)
}

// Collection is an ordered list of entities persisted under a single key.
// Every mutation writes the whole list back synchronously.
type Collection[T any, P EntityPtr[T]] struct {
	store core.Store
	key   string
	cfg   config

	mu    sync.RWMutex
	items []T
}

// NewCollection creates a collection bound to key. Call Load before use.
func NewCollection[T any, P EntityPtr[T]](store core.Store, key string, opts ...Option) *Collection[T, P] {
	return &Collection[T, P]{
		store: store,
		key:   key,
		cfg:   buildConfig(opts),
	}
}

// Key returns the storage key the collection owns.
func (c *Collection[T, P]) Key() string { return c.key }

// Load replaces the in-memory copy with the stored value.
//
// An absent value yields an empty collection. A malformed value is logged and
// also yields an empty collection; only storage failures return an error.
// Items without an id (or with a duplicate one) get a fresh id in memory; it
// is persisted by the next write.
func (c *Collection[T, P]) Load(ctx context.Context) (LoadResult[[]T], error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return LoadResult[[]T]{}, err
	}

	res := decode(raw, ok, func() []T { return []T{} })
	if res.Status == LoadMalformed {
		c.cfg.logger.Warn("ignoring malformed stored value", "key", c.key, "error", res.Err)
	}

	seen := make(map[string]bool, len(res.Value))
	for i := range res.Value {
		p := P(&res.Value[i])
		if id := p.EntityID(); id == "" || seen[id] {
			p.SetEntityID(c.cfg.newID())
			res.Assigned++
		}
		seen[p.EntityID()] = true
	}
	if res.Assigned > 0 {
		c.cfg.logger.Debug("assigned ids to stored items", "key", c.key, "count", res.Assigned)
	}

	c.mu.Lock()
	c.items = res.Value
	c.mu.Unlock()

	return LoadResult[[]T]{
		Value:    slices.Clone(res.Value),
		Status:   res.Status,
		Err:      res.Err,
		Assigned: res.Assigned,
	}, nil
}

// Items returns a copy of the in-memory collection.
func (c *Collection[T, P]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Len returns the number of items.
func (c *Collection[T, P]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find returns the item with the given id.
func (c *Collection[T, P]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Resolve maps a reference to an id. The reference is either a full id or a
// prefix that matches exactly one id.
func (c *Collection[T, P]) Resolve(ref string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if ref == "" {
		return "", core.Invalid("id", "id is required")
	}
	if c.indexOf(ref) >= 0 {
		return ref, nil
	}

	var match string
	for i := range c.items {
		id := P(&c.items[i]).EntityID()
		if !strings.HasPrefix(id, ref) {
			continue
		}
		if match != "" {
			return "", core.Invalid("id", fmt.Sprintf("id prefix %q is ambiguous", ref))
		}
		match = id
	}
	if match == "" {
		return "", core.NotFound(c.key, ref)
	}
	return match, nil
}

// SaveAll replaces the stored collection with items.
func (c *Collection[T, P]) SaveAll(ctx context.Context, items []T) error {
	return c.mutate(ctx, func([]T) ([]T, error) {
		return slices.Clone(items), nil
	})
}

// Create validates item, assigns an id when it has none, appends it and saves.
func (c *Collection[T, P]) Create(ctx context.Context, item T) (T, error) {
	if err := c.cfg.validator.Struct(item); err != nil {
		var zero T
		return zero, err
	}

	p := P(&item)
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		if p.EntityID() == "" {
			p.SetEntityID(c.cfg.newID())
		} else if indexOf[T, P](items, p.EntityID()) >= 0 {
			return nil, core.Invalid("id", fmt.Sprintf("id %q already exists", p.EntityID()))
		}
		return append(items, item), nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Delete removes the item with the given id.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	return c.mutate(ctx, func(items []T) ([]T, error) {
		i := indexOf[T, P](items, id)
		if i < 0 {
			return nil, core.NotFound(c.key, id)
		}
		return slices.Delete(items, i, i+1), nil
	})
}

// Update applies fn to a copy of the item with the given id, validates the
// result and saves it. The id cannot be changed by fn.
func (c *Collection[T, P]) Update(ctx context.Context, id string, fn func(item *T) error) (T, error) {
	var updated T
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		i := indexOf[T, P](items, id)
		if i < 0 {
			return nil, core.NotFound(c.key, id)
		}

		item := items[i]
		if err := fn(&item); err != nil {
			return nil, err
		}
		P(&item).SetEntityID(id)
		if err := c.cfg.validator.Struct(item); err != nil {
			return nil, err
		}

		items[i] = item
		updated = item
		return items, nil
	})
	return updated, err
}

// mutate computes the next collection from a copy, persists it and swaps it
// in. The change hook runs after the lock is released.
func (c *Collection[T, P]) mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	next, err := fn(slices.Clone(c.items))
	if err == nil {
		err = c.write(ctx, next)
	}
	c.mu.Unlock()

	if err != nil {
		return err
	}
	if c.cfg.onChange != nil {
		c.cfg.onChange(c.key)
	}
	return nil
}

func (c *Collection[T, P]) write(ctx context.Context, next []T) error {
	if next == nil {
		next = []T{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return &core.StorageError{Op: "encode", Key: c.key, Err: err}
	}
	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		return err
	}
	c.items = next
	return nil
}

func (c *Collection[T, P]) indexOf(id string) int {
	return indexOf[T, P](c.items, id)
}

func indexOf[T any, P EntityPtr[T]](items []T, id string) int {
	for i := range items {
		if P(&items[i]).EntityID() == id {
			return i
		}
	}
	return -1
}

// LoadStatus is Load for callers that only need the outcome.
func (c *Collection[T, P]) LoadStatus(ctx context.Context) (LoadStatus, error) {
	res, err := c.Load(ctx)
	return res.Status, err
}
