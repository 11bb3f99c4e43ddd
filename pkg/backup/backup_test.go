package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/adapters/fs"
	"github.com/aretw0/studyhub/pkg/adapters/memory"
	"github.com/aretw0/studyhub/pkg/core"
)

const fullBackup = `{
  "allNotes": [{"id": "_abc123xyz", "title": "Algebra", "content": "[{\"insert\":\"x\"}]", "createdAt": "2024-05-01T10:00:00.000Z"}],
  "activeNoteId": "_abc123xyz",
  "todos": [{"text": "Read", "completed": false}],
  "timetable": [{"time": "9:00 AM", "classes": ["Maths", "", "", "", ""]}],
  "homeworks": [],
  "links": [{"name": "Go", "url": "https://go.dev"}],
  "pdfs": [],
  "darkMode": "enabled"
}`

type countingReloader struct{ calls int }

func (r *countingReloader) Reload(context.Context) error {
	r.calls++
	return nil
}

type scriptedNotifier struct {
	accept  bool
	notices []string
}

func (n *scriptedNotifier) Notify(msg string) { n.notices = append(n.notices, msg) }
func (n *scriptedNotifier) Confirm(prompt string) bool { return n.accept }

func TestImportThenExportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	reloader := &countingReloader{}
	svc := New(store, WithReloader(reloader))

	require.NoError(t, svc.Import(ctx, []byte(fullBackup)))
	assert.Equal(t, 1, reloader.calls)

	snap, err := svc.Export(ctx)
	require.NoError(t, err)
	out, err := Encode(snap, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, fullBackup, string(out))

	active, _, _ := store.Get(ctx, core.KeyActiveNote)
	assert.Equal(t, "_abc123xyz", active, "activeNoteId is stored raw")
	dark, _, _ := store.Get(ctx, core.KeyDarkMode)
	assert.Equal(t, core.DarkModeEnabled, dark)
}

func TestImportMissingTodosChangesNothing(t *testing.T) {
	ctx := context.Background()
	seed := map[string]string{
		core.KeyTodos:    `[{"id":"a","text":"keep","completed":false}]`,
		core.KeyDarkMode: core.DarkModeDisabled,
	}
	store := memory.New(seed)
	svc := New(store)

	err := svc.Import(ctx, []byte(`{"allNotes": [], "timetable": []}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, err.Error(), "todos")
	assert.Equal(t, seed, store.Snapshot())
}

func TestImportRejects(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `hello`},
		{"array", `[1,2]`},
		{"null document", `null`},
		{"null required", `{"allNotes": null, "todos": [], "timetable": []}`},
		{"object active id", `{"allNotes": [], "todos": [], "timetable": [], "activeNoteId": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New(map[string]string{core.KeyTodos: `[]`})
			err := New(store).Import(ctx, []byte(tt.doc))
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Equal(t, map[string]string{core.KeyTodos: `[]`}, store.Snapshot())
		})
	}
}

func TestImportRemovesAbsentOptionalKeys(t *testing.T) {
	ctx := context.Background()
	store := memory.New(map[string]string{
		core.KeyActiveNote: "old",
		core.KeyDarkMode:   core.DarkModeEnabled,
		core.KeyLinks:      `[{"id":"l","name":"x","url":"https://x.org"}]`,
	})

	doc := `{"allNotes": [], "todos": [], "timetable": [], "pdfs": null}`
	require.NoError(t, New(store).Import(ctx, []byte(doc)))

	assert.Equal(t, map[string]string{
		core.KeyNotes:     `[]`,
		core.KeyTodos:     `[]`,
		core.KeyTimetable: `[]`,
	}, store.Snapshot())
}

func TestImportDeclined(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	n := &scriptedNotifier{accept: false}

	err := New(store, WithNotifier(n)).Import(ctx, []byte(fullBackup))
	assert.ErrorIs(t, err, core.ErrCancelled)
	assert.Empty(t, store.Snapshot())

	n.accept = true
	require.NoError(t, New(store, WithNotifier(n)).Import(ctx, []byte(fullBackup)))
	assert.Equal(t, []string{"Data imported successfully!"}, n.notices)
}

// brokenTx fails every staged write to "links".
type brokenTx struct {
	core.Transaction
}

func (b *brokenTx) Set(ctx context.Context, key, value string) error {
	if key == core.KeyLinks {
		return &core.StorageError{Op: "write", Key: key, Err: errors.New("quota exceeded")}
	}
	return b.Transaction.Set(ctx, key, value)
}

type brokenStore struct{ *memory.Store }

func (s brokenStore) Begin(ctx context.Context) (core.Transaction, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &brokenTx{Transaction: tx}, nil
}

func TestImportFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	seed := map[string]string{core.KeyTodos: `[{"id":"a","text":"keep","completed":false}]`}
	store := brokenStore{memory.New(seed)}

	err := New(store).Import(ctx, []byte(fullBackup))
	assert.ErrorIs(t, err, core.ErrStorage)
	assert.Equal(t, seed, store.Snapshot(), "no key from the backup was applied")
}

func TestImportOnFileStore(t *testing.T) {
	ctx := context.Background()
	store := fs.NewStore(fs.Config{Path: t.TempDir()})
	require.NoError(t, store.Initialize(ctx))
	svc := New(store)

	require.NoError(t, svc.Import(ctx, []byte(fullBackup)))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, core.AllKeys, keys)

	snap, err := svc.Export(ctx)
	require.NoError(t, err)
	out, err := Encode(snap, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, fullBackup, string(out))
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	good := filepath.Join(dir, "study_hub_backup_2024-05-01.json")
	require.NoError(t, os.WriteFile(good, []byte(fullBackup), 0644))
	wrongExt := filepath.Join(dir, "backup.txt")
	require.NoError(t, os.WriteFile(wrongExt, []byte(fullBackup), 0644))
	notJSON := filepath.Join(dir, "fake.json")
	require.NoError(t, os.WriteFile(notJSON, []byte("%PDF-1.4\n%%EOF\n"), 0644))

	store := memory.New(nil)
	svc := New(store)

	assert.ErrorIs(t, svc.ImportFile(ctx, wrongExt), core.ErrValidation)
	assert.ErrorIs(t, svc.ImportFile(ctx, notJSON), core.ErrValidation)
	assert.Empty(t, store.Snapshot())

	require.NoError(t, svc.ImportFile(ctx, good))
	assert.Len(t, store.Snapshot(), len(core.AllKeys))
}

func TestExportSkipsAbsentAndMalformed(t *testing.T) {
	ctx := context.Background()
	store := memory.New(map[string]string{
		core.KeyTodos: `[]`,
		core.KeyLinks: `[{"broken"`,
	})

	snap, err := New(store).Export(ctx)
	require.NoError(t, err)
	out, err := Encode(snap, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"todos": []}`, string(out))
}

func TestEncodeYAML(t *testing.T) {
	snap, err := Parse([]byte(fullBackup))
	require.NoError(t, err)

	out, err := Encode(snap, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "darkMode: enabled")
	assert.Contains(t, string(out), "title: Algebra")

	_, err = Encode(snap, "xml")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "study_hub_backup_2024-05-01.json", FileName(at))
	assert.Equal(t, "study_hub_backup_2024-05-01.json", New(memory.New(nil), WithClock(func() time.Time { return at })).FileName())
}
