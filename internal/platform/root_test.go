package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   vault/ (.studyhub)
	//     subdir/
	//       nested/
	//   dbvault/ (studyhub.db)
	//   empty/
	baseDir := t.TempDir()
	vaultDir := filepath.Join(baseDir, "vault")
	subDir := filepath.Join(vaultDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	dbDir := filepath.Join(baseDir, "dbvault")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(nestedDir, 0755))
	require.NoError(t, os.MkdirAll(dbDir, 0755))
	require.NoError(t, os.MkdirAll(emptyDir, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(vaultDir, DefaultSystemDir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dbDir, DefaultDatabase), nil, 0644))

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{name: "Start at Root", startPath: vaultDir, wantRoot: vaultDir},
		{name: "Start in Subdir", startPath: subDir, wantRoot: vaultDir},
		{name: "Start Nested Deeply", startPath: nestedDir, wantRoot: vaultDir},
		{name: "Database Marker", startPath: dbDir, wantRoot: dbDir},
		{name: "No Root Found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRootNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}
}

func TestResolveVaultPath(t *testing.T) {
	assert.Equal(t, ".", ResolveVaultPath("", false))
	assert.Equal(t, "notes", ResolveVaultPath("notes", false))

	inTemp := filepath.Join(t.TempDir(), "vault")
	assert.Equal(t, inTemp, ResolveVaultPath(inTemp, true))

	assert.Equal(t, filepath.Join(os.TempDir(), "studyhub-dev", "default"), ResolveVaultPath("", true))
}
