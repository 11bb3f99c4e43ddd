package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/core/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(Config{Path: filepath.Join(t.TempDir(), "studyhub.db"), InitialBackoff: time.Millisecond})
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) core.Store { return newTestStore(t) })
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "studyhub.db")

	s := NewStore(Config{Path: path})
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Set(ctx, core.KeyTodos, `[{"id":"a","text":"Read","completed":false}]`))
	require.NoError(t, s.Close())

	ro := NewStore(Config{Path: path, ReadOnly: true})
	require.NoError(t, ro.Initialize(ctx))
	defer ro.Close()

	v, ok, err := ro.Get(ctx, core.KeyTodos)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a","text":"Read","completed":false}]`, v)
	assert.ErrorIs(t, ro.Set(ctx, core.KeyTodos, `[]`), core.ErrReadOnly)
}

func TestStore_ReadOnlyRequiresDatabase(t *testing.T) {
	s := NewStore(Config{Path: filepath.Join(t.TempDir(), "missing.db"), ReadOnly: true})
	assert.ErrorIs(t, s.Initialize(context.Background()), core.ErrStorage)
}

func TestStore_NotInitialized(t *testing.T) {
	s := NewStore(Config{Path: filepath.Join(t.TempDir(), "studyhub.db")})
	_, _, err := s.Get(context.Background(), core.KeyTodos)
	assert.ErrorIs(t, err, core.ErrStorage)
}

func TestStore_CloseWhileReading(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Set(ctx, core.KeyDarkMode, core.DarkModeEnabled))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, _, err := s.Get(ctx, core.KeyDarkMode); err != nil {
					assert.ErrorIs(t, err, core.ErrStorage)
					return
				}
			}
		}()
	}
	require.NoError(t, s.Close())
	wg.Wait()

	_, _, err := s.Get(ctx, core.KeyDarkMode)
	assert.ErrorIs(t, err, core.ErrStorage)

	require.NoError(t, s.Initialize(ctx))
	v, ok, err := s.Get(ctx, core.KeyDarkMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.DarkModeEnabled, v)
}

func TestStore_RetriesBusy(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	err := s.retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, s.State().(StoreState).Retries)
}

func TestStore_RetryGivesUp(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	err := s.retry(context.Background(), func() error {
		calls++
		return errors.New("database is locked")
	})
	require.Error(t, err)
	assert.Equal(t, DefaultMaxTries, calls)
}

func TestStore_PermanentErrorNotRetried(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	err := s.retry(context.Background(), func() error {
		calls++
		return errors.New("no such table: kv")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Set(ctx, core.KeyLinks, `[]`))

	state := s.State().(StoreState)
	assert.True(t, state.Open)
	assert.Equal(t, 1, state.Writes)
	assert.Equal(t, DefaultMaxTries, state.MaxTries)
	assert.Equal(t, "store", s.ComponentType())
}
