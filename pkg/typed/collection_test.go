package typed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/adapters/memory"
	"github.com/aretw0/studyhub/pkg/core"
)

// failingStore rejects writes once armed.
type failingStore struct {
	*memory.Store
	fail bool
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.fail {
		return &core.StorageError{Op: "write", Key: key, Err: errors.New("disk full")}
	}
	return f.Store.Set(ctx, key, value)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestCollection_LoadAbsent(t *testing.T) {
	c := NewCollection[core.Todo](memory.New(nil), core.KeyTodos)

	res, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadAbsent, res.Status)
	assert.Empty(t, res.Value)
	assert.Equal(t, 0, c.Len())
}

func TestCollection_LoadMalformed(t *testing.T) {
	store := memory.New(map[string]string{core.KeyTodos: `[{"text":`})
	c := NewCollection[core.Todo](store, core.KeyTodos)

	res, err := c.Load(context.Background())
	require.NoError(t, err, "malformed values are not errors")
	assert.Equal(t, LoadMalformed, res.Status)
	assert.Error(t, res.Err)
	assert.Equal(t, 0, c.Len())

	raw, _, _ := store.Get(context.Background(), core.KeyTodos)
	assert.Equal(t, `[{"text":`, raw, "bad value stays until the next write")
}

func TestCollection_LoadAssignsMissingIDs(t *testing.T) {
	store := memory.New(map[string]string{
		core.KeyTodos: `[{"text":"a","completed":false},{"id":"x","text":"b"},{"id":"x","text":"c"}]`,
	})
	c := NewCollection[core.Todo](store, core.KeyTodos, WithIDGenerator(sequentialIDs()))

	res, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assigned)

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "id-1", items[0].ID)
	assert.Equal(t, "x", items[1].ID)
	assert.Equal(t, "id-2", items[2].ID)
}

func TestCollection_CreateDeleteUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	var changed []string
	c := NewCollection[core.Todo](store, core.KeyTodos,
		WithIDGenerator(sequentialIDs()),
		WithChangeHook(func(key string) { changed = append(changed, key) }),
	)
	_, err := c.Load(ctx)
	require.NoError(t, err)

	first, err := c.Create(ctx, core.Todo{Text: "Read chapter 3"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", first.ID)
	_, err = c.Create(ctx, core.Todo{Text: "Revise"})
	require.NoError(t, err)

	raw, ok, _ := store.Get(ctx, core.KeyTodos)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"id-1","text":"Read chapter 3","completed":false},{"id":"id-2","text":"Revise","completed":false}]`, raw)

	updated, err := c.Update(ctx, "id-1", func(td *core.Todo) error {
		td.Completed = !td.Completed
		td.ID = "hijack"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "id-1", updated.ID, "ids are immutable")

	require.NoError(t, c.Delete(ctx, "id-2"))
	assert.Equal(t, 1, c.Len())

	assert.ErrorIs(t, c.Delete(ctx, "id-2"), core.ErrNotFound)
	assert.Equal(t, []string{core.KeyTodos, core.KeyTodos, core.KeyTodos, core.KeyTodos}, changed)
}

func TestCollection_CreateValidates(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	c := NewCollection[core.Link](store, core.KeyLinks)

	_, err := c.Create(ctx, core.Link{Name: "Docs", URL: "not a url"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrValidation)

	var verrs core.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "url", verrs[0].Field)

	_, ok, _ := store.Get(ctx, core.KeyLinks)
	assert.False(t, ok, "invalid links are never written")
}

func TestCollection_CreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[core.Todo](memory.New(nil), core.KeyTodos)
	_, err := c.Create(ctx, core.Todo{ID: "a", Text: "one"})
	require.NoError(t, err)

	_, err = c.Create(ctx, core.Todo{ID: "a", Text: "two"})
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, 1, c.Len())
}

func TestCollection_FailedWriteKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.New(nil)}
	c := NewCollection[core.Todo](store, core.KeyTodos)

	_, err := c.Create(ctx, core.Todo{Text: "kept"})
	require.NoError(t, err)

	store.fail = true
	_, err = c.Create(ctx, core.Todo{Text: "lost"})
	assert.ErrorIs(t, err, core.ErrStorage)
	assert.Equal(t, 1, c.Len(), "memory matches the persisted collection")
}

func TestCollection_Resolve(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[core.Todo](memory.New(nil), core.KeyTodos)
	require.NoError(t, c.SaveAll(ctx, []core.Todo{
		{ID: "abc123", Text: "a"},
		{ID: "abd456", Text: "b"},
	}))

	id, err := c.Resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = c.Resolve("ab")
	assert.ErrorIs(t, err, core.ErrValidation, "ambiguous prefix")

	_, err = c.Resolve("zz")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCollection_SaveAllEmptyWritesArray(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	c := NewCollection[core.PDF](store, core.KeyPDFs)

	require.NoError(t, c.SaveAll(ctx, nil))

	raw, ok, _ := store.Get(ctx, core.KeyPDFs)
	require.True(t, ok)
	assert.Equal(t, `[]`, raw)
}
