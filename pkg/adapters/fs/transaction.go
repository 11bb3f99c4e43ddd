package fs

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/studyhub/pkg/core"
)

var errTxClosed = errors.New("transaction closed")

// Transaction implements core.Transaction for the filesystem.
// Writes are staged in memory and applied on Commit.
type Transaction struct {
	store  *Store
	staged map[string]*string // key -> value, nil means remove
	mu     sync.Mutex
	closed bool
}

// NewTransaction creates a new transaction.
func NewTransaction(store *Store) *Transaction {
	return &Transaction{
		store:  store,
		staged: make(map[string]*string),
	}
}

// Get retrieves a value, favoring staged changes.
func (t *Transaction) Get(ctx context.Context, key string) (string, bool, error) {
	t.mu.Lock()
	staged, touched := t.staged[key]
	closed := t.closed
	t.mu.Unlock()

	if closed {
		return "", false, &core.StorageError{Op: "transaction", Key: key, Err: errTxClosed}
	}
	if touched {
		if staged == nil {
			return "", false, nil
		}
		return *staged, true, nil
	}
	return t.store.Get(ctx, key)
}

// Set stages a write.
func (t *Transaction) Set(ctx context.Context, key, value string) error {
	if _, err := t.store.pathFor(key); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return &core.StorageError{Op: "transaction", Key: key, Err: errTxClosed}
	}
	t.staged[key] = &value
	return nil
}

// Remove stages a removal.
func (t *Transaction) Remove(ctx context.Context, key string) error {
	if _, err := t.store.pathFor(key); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return &core.StorageError{Op: "transaction", Key: key, Err: errTxClosed}
	}
	t.staged[key] = nil
	return nil
}

// Commit applies all staged changes in key order. Prior values are captured
// first; if a write fails, every key already touched is put back.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return &core.StorageError{Op: "commit", Err: errTxClosed}
	}
	t.closed = true

	keys := slices.Sorted(maps.Keys(t.staged))

	type prior struct {
		value   string
		present bool
	}
	snapshot := make(map[string]prior, len(keys))
	for _, key := range keys {
		v, ok, err := t.store.Get(ctx, key)
		if err != nil {
			return err
		}
		snapshot[key] = prior{value: v, present: ok}
	}

	priorOf := func(k string) (string, bool) { p := snapshot[k]; return p.value, p.present }

	var applied []string
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			t.restore(ctx, applied, priorOf)
			return &core.StorageError{Op: "commit", Err: err}
		}

		var err error
		if v := t.staged[key]; v != nil {
			err = t.store.Set(ctx, key, *v)
		} else {
			err = t.store.Remove(ctx, key)
		}
		if err != nil {
			t.restore(ctx, applied, priorOf)
			return fmt.Errorf("commit aborted at %q: %w", key, err)
		}
		applied = append(applied, key)
	}

	t.store.config.Logger.Debug("transaction committed", "keys", len(keys))
	return nil
}

func (t *Transaction) restore(ctx context.Context, keys []string, prior func(string) (string, bool)) {
	// Use a fresh context so a cancelled commit can still be undone.
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		var err error
		if v, ok := prior(key); ok {
			err = t.store.Set(ctx, key, v)
		} else {
			err = t.store.Remove(ctx, key)
		}
		if err != nil {
			t.store.config.Logger.Error("failed to restore key after aborted commit", "key", key, "error", err)
		}
	}
}

// Rollback discards all staged changes.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.staged = nil
	t.closed = true
	return nil
}
