// Package fs implements core.Store on the filesystem: every key is a file
// inside the vault directory, written atomically.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/studyhub/pkg/core"
)

// ValueExt is the extension of the file holding a key's value.
const ValueExt = ".json"

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".studyhub"

	// ErrorHandler receives runtime watcher failures. When nil they are logged.
	ErrorHandler func(error)
}

// Store implements core.Store, core.Transactional and core.Watchable.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
	writes        int
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.SystemDir == "" {
		config.SystemDir = ".studyhub"
	}
	return &Store{
		Path:   config.Path,
		config: config,
	}
}

// Initialize creates the vault directory, or checks it exists when
// MustExist or ReadOnly is set.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return &core.StorageError{Op: "init", Err: fmt.Errorf("vault path does not exist: %s", s.Path)}
		}
		if err != nil {
			return &core.StorageError{Op: "init", Err: err}
		}
		if !info.IsDir() {
			return &core.StorageError{Op: "init", Err: fmt.Errorf("vault path is not a directory: %s", s.Path)}
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
		return &core.StorageError{Op: "init", Err: fmt.Errorf("failed to create vault directory: %w", err)}
	}
	return nil
}

// Get reads the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &core.StorageError{Op: "read", Key: key, Err: err}
	}
	return string(data), true, nil
}

// Set writes value under key atomically.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, []byte(value), 0644); err != nil {
		return &core.StorageError{Op: "write", Key: key, Err: err}
	}
	s.recordWrite()
	s.config.Logger.Debug("stored value", "key", key, "bytes", len(value))
	return nil
}

// Remove deletes the file holding key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &core.StorageError{Op: "remove", Key: key, Err: err}
	}
	s.recordWrite()
	s.config.Logger.Debug("removed value", "key", key)
	return nil
}

// Keys lists the keys stored in the vault, sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &core.StorageError{Op: "list", Err: err}
	}

	var keys []string
	for _, e := range entries {
		if key, ok := s.keyFor(e.Name()); ok && !e.IsDir() {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Begin starts a new transaction.
func (s *Store) Begin(ctx context.Context) (core.Transaction, error) {
	if s.config.ReadOnly {
		return nil, core.ErrReadOnly
	}
	return NewTransaction(s), nil
}

func (s *Store) pathFor(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", core.Invalid("key", fmt.Sprintf("invalid key %q", key))
	}
	return filepath.Join(s.Path, key+ValueExt), nil
}

// keyFor maps a file name back to its key. Temp files and foreign files are
// not keys.
func (s *Store) keyFor(name string) (string, bool) {
	if strings.HasPrefix(name, TempFilePrefix) || filepath.Ext(name) != ValueExt {
		return "", false
	}
	key := strings.TrimSuffix(name, ValueExt)
	return key, validKey.MatchString(key)
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
}

var _ core.Transactional = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
