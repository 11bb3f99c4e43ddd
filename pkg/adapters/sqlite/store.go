// Package sqlite implements core.Store on a single SQLite table using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/aretw0/studyhub/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`

// DefaultMaxTries bounds how often a busy database is retried.
const DefaultMaxTries = 5

// Config holds the configuration for the SQLite store.
type Config struct {
	Path     string
	ReadOnly bool
	Logger   *slog.Logger

	// MaxTries is the number of attempts for a statement that hits a busy
	// database. Zero means DefaultMaxTries.
	MaxTries int
	// InitialBackoff is the first retry delay. Zero uses the backoff default.
	InitialBackoff time.Duration
}

// Store implements core.Store and core.Transactional.
type Store struct {
	Path   string
	config Config

	// openMu serializes Initialize and Close; mu guards db and the counters.
	openMu  sync.Mutex
	mu      sync.RWMutex
	db      *sql.DB
	writes  int
	retries int
}

// NewStore creates a store for the database at config.Path. The database is
// opened by Initialize.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.MaxTries <= 0 {
		config.MaxTries = DefaultMaxTries
	}
	return &Store{Path: config.Path, config: config}
}

// Initialize opens the database and applies the schema.
func (s *Store) Initialize(ctx context.Context) error {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	if _, err := s.conn(); err == nil {
		return nil
	}

	if s.config.ReadOnly {
		if _, err := os.Stat(s.Path); err != nil {
			return &core.StorageError{Op: "init", Err: fmt.Errorf("database does not exist: %w", err)}
		}
	}

	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return &core.StorageError{Op: "init", Err: fmt.Errorf("failed to open database: %w", err)}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &core.StorageError{Op: "init", Err: fmt.Errorf("failed to connect to database: %w", err)}
	}

	if !s.config.ReadOnly {
		if err := s.retry(ctx, func() error {
			_, err := db.ExecContext(ctx, schema)
			return err
		}); err != nil {
			db.Close()
			return &core.StorageError{Op: "init", Err: fmt.Errorf("failed to apply schema: %w", err)}
		}
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	s.config.Logger.Debug("sqlite store ready", "path", s.Path)
	return nil
}

// Close closes the database connection. Calls still in flight fail with a
// storage error.
func (s *Store) Close() error {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}

func (s *Store) dsn() string {
	dsn := "file:" + s.Path + "?_pragma=busy_timeout(1000)"
	if s.config.ReadOnly {
		dsn += "&mode=ro"
	}
	return dsn
}

// Get reads the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := s.conn()
	if err != nil {
		return "", false, err
	}
	return get(ctx, s, db, key)
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	db, err := s.writable()
	if err != nil {
		return err
	}
	if err := set(ctx, s, db, key, value); err != nil {
		return err
	}
	s.recordWrite()
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	db, err := s.writable()
	if err != nil {
		return err
	}
	if err := remove(ctx, s, db, key); err != nil {
		return err
	}
	s.recordWrite()
	return nil
}

// Keys lists stored keys in order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var keys []string
	err = s.retry(ctx, func() error {
		keys = keys[:0]
		rows, err := db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var k string
			if err := rows.Scan(&k); err != nil {
				return err
			}
			keys = append(keys, k)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, &core.StorageError{Op: "list", Err: err}
	}
	return keys, nil
}

// Begin starts a SQL transaction.
func (s *Store) Begin(ctx context.Context) (core.Transaction, error) {
	db, err := s.writable()
	if err != nil {
		return nil, err
	}

	var tx *sql.Tx
	err = s.retry(ctx, func() error {
		var err error
		tx, err = db.BeginTx(ctx, nil)
		return err
	})
	if err != nil {
		return nil, &core.StorageError{Op: "begin", Err: err}
	}
	return &Transaction{store: s, tx: tx}, nil
}

// conn returns the open database.
func (s *Store) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, &core.StorageError{Op: "open", Err: errors.New("store not initialized")}
	}
	return s.db, nil
}

func (s *Store) writable() (*sql.DB, error) {
	if s.config.ReadOnly {
		return nil, core.ErrReadOnly
	}
	return s.conn()
}

// retry runs op until it succeeds, fails with a non-busy error or runs out of
// tries.
func (s *Store) retry(ctx context.Context, op func() error) error {
	exp := backoff.NewExponentialBackOff()
	if s.config.InitialBackoff > 0 {
		exp.InitialInterval = s.config.InitialBackoff
	}
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(s.config.MaxTries-1)), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return backoff.Permanent(err)
		}
		s.recordRetry()
		s.config.Logger.Debug("database busy, retrying", "attempt", attempt, "error", err)
		return err
	}, b)
}

// isBusy reports whether err is a transient lock conflict.
func isBusy(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
}

func (s *Store) recordRetry() {
	s.mu.Lock()
	s.retries++
	s.mu.Unlock()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, s *Store, q querier, key string) (string, bool, error) {
	var value string
	var found bool
	err := s.retry(ctx, func() error {
		err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		found = err == nil
		return err
	})
	if err != nil {
		return "", false, &core.StorageError{Op: "read", Key: key, Err: err}
	}
	return value, found, nil
}

func set(ctx context.Context, s *Store, q querier, key, value string) error {
	if key == "" {
		return core.Invalid("key", "key is required")
	}
	err := s.retry(ctx, func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, time.Now().UTC())
		return err
	})
	if err != nil {
		return &core.StorageError{Op: "write", Key: key, Err: err}
	}
	s.config.Logger.Debug("stored value", "key", key, "bytes", len(value))
	return nil
}

func remove(ctx context.Context, s *Store, q querier, key string) error {
	err := s.retry(ctx, func() error {
		_, err := q.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
		return err
	})
	if err != nil {
		return &core.StorageError{Op: "remove", Key: key, Err: err}
	}
	s.config.Logger.Debug("removed value", "key", key)
	return nil
}

var _ core.Transactional = (*Store)(nil)
