package typed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/adapters/memory"
	"github.com/aretw0/studyhub/pkg/core"
)

func TestValue_FallbackAndSet(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	v := NewValue(store, core.KeyTimetable, core.DefaultTimetable)

	res, err := v.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, LoadAbsent, res.Status)
	require.Len(t, v.Get(), 7)
	assert.Equal(t, "9:00 AM", v.Get()[0].Time)

	rows := v.Get()
	rows[0].Classes[0] = "Algebra"
	require.NoError(t, v.Set(ctx, rows))

	reloaded := NewValue(store, core.KeyTimetable, core.DefaultTimetable)
	_, err = reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", reloaded.Get()[0].Classes[0])
}

func TestValue_Reset(t *testing.T) {
	ctx := context.Background()
	store := memory.New(map[string]string{core.KeyTimetable: `[{"time":"8:00 AM","classes":["","","","",""]}]`})
	v := NewValue(store, core.KeyTimetable, core.DefaultTimetable)
	_, err := v.Load(ctx)
	require.NoError(t, err)
	require.Len(t, v.Get(), 1)

	require.NoError(t, v.Reset(ctx))
	assert.Len(t, v.Get(), 7)
	_, ok, _ := store.Get(ctx, core.KeyTimetable)
	assert.False(t, ok)
}

func TestValue_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	v := NewValue(memory.New(nil), core.KeyTimetable, core.DefaultTimetable)
	_, err := v.Load(ctx)
	require.NoError(t, err)

	rows := v.Get()
	rows[0].Time = "scribbled"
	rows[0].Classes[0] = "scribbled"
	assert.Equal(t, "9:00 AM", v.Get()[0].Time)
	assert.Empty(t, v.Get()[0].Classes[0])

	require.NoError(t, v.Set(ctx, rows))
	rows[1].Time = "after set"
	assert.Equal(t, "10:00 AM", v.Get()[1].Time)
}

func TestValue_FailedWriteKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.New(nil)}
	v := NewValue(store, core.KeyTimetable, core.DefaultTimetable)
	_, err := v.Load(ctx)
	require.NoError(t, err)

	store.fail = true
	rows := v.Get()
	rows[1].Classes[0] = "Physics"
	err = v.Set(ctx, rows)
	assert.ErrorIs(t, err, core.ErrStorage)
	assert.Empty(t, v.Get()[1].Classes[0], "memory matches the persisted value")
	_, ok, _ := store.Get(ctx, core.KeyTimetable)
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	fallback := func() []int { return []int{} }

	tests := []struct {
		name   string
		raw    string
		ok     bool
		status LoadStatus
	}{
		{"absent", "", false, LoadAbsent},
		{"null", " null ", true, LoadAbsent},
		{"valid", "[1,2]", true, LoadOK},
		{"malformed", "[1,", true, LoadMalformed},
		{"wrong type", `{"a":1}`, true, LoadMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := decode(tt.raw, tt.ok, fallback)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.status == LoadOK, res.OK())
			if tt.status != LoadOK {
				assert.Empty(t, res.Value)
			}
		})
	}
}
