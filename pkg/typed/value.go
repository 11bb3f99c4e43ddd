package typed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aretw0/studyhub/pkg/core"
)

// Value is a single JSON document persisted under one key, such as the
// timetable. When nothing is stored, the fallback is used.
type Value[V any] struct {
	store    core.Store
	key      string
	fallback func() V
	cfg      config

	mu      sync.RWMutex
	current V
}

// NewValue creates a value bound to key. Call Load before use.
func NewValue[V any](store core.Store, key string, fallback func() V, opts ...Option) *Value[V] {
	return &Value[V]{
		store:    store,
		key:      key,
		fallback: fallback,
		cfg:      buildConfig(opts),
		current:  fallback(),
	}
}

// Key returns the storage key the value owns.
func (v *Value[V]) Key() string { return v.key }

// Load replaces the in-memory copy with the stored value, falling back when
// the value is absent or malformed.
func (v *Value[V]) Load(ctx context.Context) (LoadResult[V], error) {
	raw, ok, err := v.store.Get(ctx, v.key)
	if err != nil {
		return LoadResult[V]{}, err
	}

	res := decode(raw, ok, v.fallback)
	if res.Status == LoadMalformed {
		v.cfg.logger.Warn("ignoring malformed stored value", "key", v.key, "error", res.Err)
	}

	v.mu.Lock()
	v.current = clone(res.Value)
	v.mu.Unlock()
	return res, nil
}

// Get returns a copy of the in-memory value. Changing it does not touch the
// stored value; pass it to Set for that.
func (v *Value[V]) Get() V {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return clone(v.current)
}

// Set replaces the stored value wholesale.
func (v *Value[V]) Set(ctx context.Context, value V) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &core.StorageError{Op: "encode", Key: v.key, Err: err}
	}

	v.mu.Lock()
	err = v.store.Set(ctx, v.key, string(data))
	if err == nil {
		v.current = clone(value)
	}
	v.mu.Unlock()

	if err != nil {
		return err
	}
	if v.cfg.onChange != nil {
		v.cfg.onChange(v.key)
	}
	return nil
}

// Reset removes the stored value so the fallback applies again.
func (v *Value[V]) Reset(ctx context.Context) error {
	v.mu.Lock()
	err := v.store.Remove(ctx, v.key)
	if err == nil {
		v.current = v.fallback()
	}
	v.mu.Unlock()

	if err != nil {
		return err
	}
	if v.cfg.onChange != nil {
		v.cfg.onChange(v.key)
	}
	return nil
}

// LoadStatus is Load for callers that only need the outcome.
func (v *Value[V]) LoadStatus(ctx context.Context) (LoadStatus, error) {
	res, err := v.Load(ctx)
	return res.Status, err
}

// clone deep-copies a JSON document through its encoding. Values that do not
// survive a round trip are returned as they are.
func clone[V any](in V) V {
	data, err := json.Marshal(in)
	if err != nil {
		return in
	}
	var out V
	if err := json.Unmarshal(data, &out); err != nil {
		return in
	}
	return out
}
