package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/aretw0/studyhub/pkg/core"
)

// Transaction maps core.Transaction onto a SQL transaction. Reads inside the
// transaction see its own staged writes.
type Transaction struct {
	store  *Store
	tx     *sql.Tx
	mu     sync.Mutex
	writes int
}

func (t *Transaction) Get(ctx context.Context, key string) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return get(ctx, t.store, t.tx, key)
}

func (t *Transaction) Set(ctx context.Context, key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := set(ctx, t.store, t.tx, key, value); err != nil {
		return err
	}
	t.writes++
	return nil
}

func (t *Transaction) Remove(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := remove(ctx, t.store, t.tx, key); err != nil {
		return err
	}
	t.writes++
	return nil
}

// Commit applies the transaction. SQLite discards every staged write when the
// commit fails.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.tx.Commit(); err != nil {
		_ = t.tx.Rollback()
		return &core.StorageError{Op: "commit", Err: err}
	}
	for range t.writes {
		t.store.recordWrite()
	}
	t.store.config.Logger.Debug("transaction committed", "writes", t.writes)
	return nil
}

// Rollback discards the transaction. Rolling back twice is not an error.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return &core.StorageError{Op: "rollback", Err: err}
	}
	return nil
}
