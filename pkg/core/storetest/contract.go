// Package storetest holds behaviour every core.Store adapter must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/core"
)

// Run exercises the core.Store contract against stores built by newStore.
// Each subtest gets a fresh, initialized store.
func Run(t *testing.T, newStore func(t *testing.T) core.Store) {
	t.Run("AbsentKey", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(context.Background(), core.KeyTodos)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Set(ctx, core.KeyDarkMode, core.DarkModeDisabled))
		require.NoError(t, s.Set(ctx, core.KeyDarkMode, core.DarkModeEnabled))

		v, ok, err := s.Get(ctx, core.KeyDarkMode)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, core.DarkModeEnabled, v)
	})

	t.Run("ValuesAreOpaque", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		raw := "{\n  \"weird\": \"ünïcödé\\n\" }"
		require.NoError(t, s.Set(ctx, core.KeyLinks, raw))

		v, _, err := s.Get(ctx, core.KeyLinks)
		require.NoError(t, err)
		assert.Equal(t, raw, v)
	})

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Set(ctx, core.KeyActiveNote, "n1"))
		require.NoError(t, s.Remove(ctx, core.KeyActiveNote))
		require.NoError(t, s.Remove(ctx, core.KeyActiveNote))

		_, ok, err := s.Get(ctx, core.KeyActiveNote)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("KeysSorted", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Set(ctx, core.KeyTodos, `[]`))
		require.NoError(t, s.Set(ctx, core.KeyNotes, `[]`))
		require.NoError(t, s.Set(ctx, core.KeyPDFs, `[]`))

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{core.KeyNotes, core.KeyPDFs, core.KeyTodos}, keys)
	})

	t.Run("Transaction", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		ts, ok := s.(core.Transactional)
		if !ok {
			t.Skip("store is not transactional")
		}
		require.NoError(t, s.Set(ctx, core.KeyActiveNote, "n1"))

		tx, err := ts.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Set(ctx, core.KeyTodos, `[]`))
		require.NoError(t, tx.Remove(ctx, core.KeyActiveNote))

		v, ok, err := tx.Get(ctx, core.KeyTodos)
		require.NoError(t, err)
		assert.True(t, ok, "reads see staged writes")
		assert.Equal(t, `[]`, v)

		require.NoError(t, tx.Commit(ctx))

		_, ok, err = s.Get(ctx, core.KeyActiveNote)
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = s.Get(ctx, core.KeyTodos)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("TransactionRollback", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		ts, ok := s.(core.Transactional)
		if !ok {
			t.Skip("store is not transactional")
		}
		require.NoError(t, s.Set(ctx, core.KeyTodos, `["old"]`))

		tx, err := ts.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Set(ctx, core.KeyTodos, `["new"]`))
		require.NoError(t, tx.Rollback(ctx))

		v, _, err := s.Get(ctx, core.KeyTodos)
		require.NoError(t, err)
		assert.Equal(t, `["old"]`, v)
	})
}
