package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/core"
)

func TestWatch(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx, "*")
	require.NoError(t, err)

	// Another writer touches the vault directly.
	require.NoError(t, os.WriteFile(filepath.Join(s.Path, core.KeyTodos+ValueExt), []byte(`[]`), 0644))

	select {
	case e := <-events:
		assert.Equal(t, core.KeyTodos, e.Key)
		assert.Equal(t, core.EventSet, e.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "channel closes after cancel")
}

func TestWatch_FiltersPattern(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx, "dark*")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, core.KeyTodos, `[]`))
	require.NoError(t, s.Set(ctx, core.KeyDarkMode, core.DarkModeEnabled))

	select {
	case e := <-events:
		assert.Equal(t, core.KeyDarkMode, e.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Watch(context.Background(), "[")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestDebouncer_Coalesces(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	got := make(chan core.Event, 4)

	for i := range 3 {
		d.add(core.Event{Type: core.EventSet, Key: core.KeyTodos, Timestamp: int64(i)}, func(e core.Event) { got <- e })
	}

	select {
	case e := <-got:
		assert.Equal(t, int64(2), e.Timestamp, "last event wins")
	case <-time.After(time.Second):
		t.Fatal("debounced event never fired")
	}
	d.stopAndWait()
	assert.Empty(t, got)
}
