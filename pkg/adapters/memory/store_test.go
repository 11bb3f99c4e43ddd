package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/core/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) core.Store { return New(nil) })
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New(map[string]string{core.KeyDarkMode: core.DarkModeEnabled})

	snap := s.Snapshot()
	snap[core.KeyDarkMode] = core.DarkModeDisabled

	v, ok, err := s.Get(context.Background(), core.KeyDarkMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.DarkModeEnabled, v)
}

func TestTransactionClosedAfterCommit(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.ErrorIs(t, tx.Set(ctx, core.KeyTodos, `[]`), core.ErrStorage)
	assert.ErrorIs(t, tx.Commit(ctx), core.ErrStorage)
}
