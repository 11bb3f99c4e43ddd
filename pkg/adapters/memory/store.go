// Package memory implements core.Store in process memory. It is the volatile
// counterpart of the file adapter and backs tests and throwaway sessions.
package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/studyhub/pkg/core"
)

// Store is a map-backed key-value store.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// New creates an empty store, optionally seeded with values.
func New(seed map[string]string) *Store {
	values := make(map[string]string, len(seed))
	maps.Copy(values, seed)
	return &Store{values: values}
}

func (s *Store) Initialize(ctx context.Context) error { return nil }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values)), nil
}

// Snapshot returns a copy of every stored value.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Begin starts a transaction. Staged changes are applied under one lock.
func (s *Store) Begin(ctx context.Context) (core.Transaction, error) {
	return &transaction{store: s, staged: make(map[string]*string)}, nil
}

type transaction struct {
	store  *Store
	mu     sync.Mutex
	staged map[string]*string // nil value means remove
	closed bool
}

func (t *transaction) Get(ctx context.Context, key string) (string, bool, error) {
	t.mu.Lock()
	staged, touched := t.staged[key]
	t.mu.Unlock()
	if touched {
		if staged == nil {
			return "", false, nil
		}
		return *staged, true, nil
	}
	return t.store.Get(ctx, key)
}

func (t *transaction) Set(ctx context.Context, key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errTxClosed
	}
	t.staged[key] = &value
	return nil
}

func (t *transaction) Remove(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errTxClosed
	}
	t.staged[key] = nil
	return nil
}

func (t *transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errTxClosed
	}

	t.store.mu.Lock()
	for key, v := range t.staged {
		if v == nil {
			delete(t.store.values, key)
		} else {
			t.store.values[key] = *v
		}
	}
	t.store.mu.Unlock()

	t.closed = true
	return nil
}

func (t *transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staged = nil
	t.closed = true
	return nil
}

var errTxClosed = &core.StorageError{Op: "transaction", Err: errors.New("transaction closed")}

var _ core.Transactional = (*Store)(nil)
