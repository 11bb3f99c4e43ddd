package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/core/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(Config{Path: t.TempDir()})
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) core.Store { return newTestStore(t) })
}

func TestStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.Get(ctx, core.KeyTodos)
	require.NoError(t, err)
	assert.False(t, ok, "fresh vault has no todos")

	require.NoError(t, s.Set(ctx, core.KeyTodos, `[{"id":"a","text":"Read","completed":false}]`))

	v, ok, err := s.Get(ctx, core.KeyTodos)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a","text":"Read","completed":false}]`, v)

	_, err = os.Stat(filepath.Join(s.Path, core.KeyTodos+ValueExt))
	assert.NoError(t, err, "value lives in its own file")

	require.NoError(t, s.Remove(ctx, core.KeyTodos))
	_, ok, err = s.Get(ctx, core.KeyTodos)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Remove(ctx, core.KeyTodos), "removing an absent key is not an error")
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Set(ctx, core.KeyTodos, `[]`))
	require.NoError(t, s.Set(ctx, core.KeyDarkMode, core.DarkModeEnabled))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path, "README.md"), []byte("foreign"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path, TempFilePrefix+"123"), []byte("partial"), 0644))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeyDarkMode, core.KeyTodos}, keys)
}

func TestStore_InvalidKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		err := s.Set(ctx, key, "x")
		assert.ErrorIs(t, err, core.ErrValidation, "key %q", key)
	}
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, core.KeyDarkMode+ValueExt), []byte(core.DarkModeEnabled), 0644))

	s := NewStore(Config{Path: dir, ReadOnly: true})
	require.NoError(t, s.Initialize(ctx))

	v, ok, err := s.Get(ctx, core.KeyDarkMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.DarkModeEnabled, v)

	assert.ErrorIs(t, s.Set(ctx, core.KeyDarkMode, core.DarkModeDisabled), core.ErrReadOnly)
	assert.ErrorIs(t, s.Remove(ctx, core.KeyDarkMode), core.ErrReadOnly)
	_, err = s.Begin(ctx)
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestStore_InitializeMustExist(t *testing.T) {
	s := NewStore(Config{Path: filepath.Join(t.TempDir(), "nope"), MustExist: true})
	err := s.Initialize(context.Background())
	assert.ErrorIs(t, err, core.ErrStorage)
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Set(ctx, core.KeyLinks, `[]`))

	state, ok := s.State().(StoreState)
	require.True(t, ok)
	assert.Equal(t, s.Path, state.Path)
	assert.Equal(t, ".studyhub", state.SystemDir)
	assert.Equal(t, 1, state.Writes)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "store", s.ComponentType())
}
