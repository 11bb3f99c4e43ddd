package platform

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/hub"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("studyhub", pflag.ContinueOnError)
	fs.String("vault", "", "")
	fs.String("adapter", AdapterFS, "")
	fs.String("sqlite-path", "", "")
	fs.String("log-level", "info", "")
	fs.Bool("readonly", false, "")
	fs.Int64("pdf-warn-bytes", hub.DefaultPDFWarnBytes, "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studyhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	// .env is resolved against the working directory.
	t.Chdir(t.TempDir())

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig("", newFlags())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("File Overrides Defaults", func(t *testing.T) {
		path := writeConfig(t, "vault: /data/hub\nadapter: sqlite\nsqlite:\n  path: /data/hub.db\nlog:\n  level: debug\n")

		cfg, err := LoadConfig(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, "/data/hub", cfg.Vault)
		assert.Equal(t, AdapterSQLite, cfg.Adapter)
		assert.Equal(t, "/data/hub.db", cfg.SQLite.Path)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
		assert.Equal(t, int64(hub.DefaultPDFWarnBytes), cfg.PDF.WarnBytes)
	})

	t.Run("Environment Overrides File", func(t *testing.T) {
		path := writeConfig(t, "vault: /data/hub\n")
		t.Setenv("STUDYHUB_VAULT", "/env/hub")
		t.Setenv("STUDYHUB_READONLY", "true")
		t.Setenv("STUDYHUB_PDF_WARN_BYTES", "1024")
		t.Setenv("STUDYHUB_UNRELATED", "ignored")

		cfg, err := LoadConfig(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, "/env/hub", cfg.Vault)
		assert.True(t, cfg.ReadOnly)
		assert.Equal(t, int64(1024), cfg.PDF.WarnBytes)
	})

	t.Run("Flags Override Environment", func(t *testing.T) {
		t.Setenv("STUDYHUB_VAULT", "/env/hub")
		t.Setenv("STUDYHUB_ADAPTER", "sqlite")
		t.Setenv("STUDYHUB_PDF_WARN_BYTES", "1024")

		flags := newFlags()
		require.NoError(t, flags.Parse([]string{
			"--vault", "/flag/hub", "--sqlite-path", "/flag/hub.db", "--pdf-warn-bytes", "2048",
		}))

		cfg, err := LoadConfig("", flags)
		require.NoError(t, err)
		assert.Equal(t, "/flag/hub", cfg.Vault)
		assert.Equal(t, "/flag/hub.db", cfg.SQLite.Path)
		assert.Equal(t, int64(2048), cfg.PDF.WarnBytes)
		// Unset flags keep the lower layers.
		assert.Equal(t, AdapterSQLite, cfg.Adapter)
	})

	t.Run("DotEnv", func(t *testing.T) {
		require.NoError(t, os.WriteFile(".env", []byte("STUDYHUB_LOG_LEVEL=warn\n"), 0644))
		t.Cleanup(func() {
			os.Remove(".env")
			os.Unsetenv("STUDYHUB_LOG_LEVEL")
		})

		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
	})

	t.Run("Invalid Adapter", func(t *testing.T) {
		t.Setenv("STUDYHUB_ADAPTER", "s3")

		_, err := LoadConfig("", nil)
		assert.ErrorIs(t, err, core.ErrValidation)
		assert.ErrorContains(t, err, "adapter must be one of")
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		assert.Error(t, err)
	})
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Adapter = AdapterSQLite
	cfg.SQLite.Path = "hub.db"
	cfg.ReadOnly = true

	o := defaultOptions()
	for _, opt := range cfg.Options() {
		opt(o)
	}
	assert.Equal(t, AdapterSQLite, o.adapter)
	assert.Equal(t, "hub.db", o.text("sqlite_path"))
	assert.True(t, o.flag("read_only"))
	assert.Len(t, o.hubOpts, 1)
}
