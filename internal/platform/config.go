package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/hub"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "STUDYHUB_"

// Config is the layered CLI configuration.
type Config struct {
	Vault    string       `koanf:"vault" json:"vault"`
	Adapter  string       `koanf:"adapter" json:"adapter" validate:"oneof=fs sqlite memory"`
	ReadOnly bool         `koanf:"readonly" json:"readonly"`
	SQLite   SQLiteConfig `koanf:"sqlite" json:"sqlite"`
	Log      LogConfig    `koanf:"log" json:"log"`
	PDF      PDFConfig    `koanf:"pdf" json:"pdf"`
}

type SQLiteConfig struct {
	Path string `koanf:"path" json:"path"`
}

type LogConfig struct {
	Level string `koanf:"level" json:"level" validate:"oneof=debug info warn error"`
}

type PDFConfig struct {
	WarnBytes int64 `koanf:"warn_bytes" json:"warn_bytes" validate:"gte=0"`
}

// DefaultConfig returns the lowest configuration layer.
func DefaultConfig() Config {
	return Config{
		Adapter: AdapterFS,
		Log:     LogConfig{Level: "info"},
		PDF:     PDFConfig{WarnBytes: hub.DefaultPDFWarnBytes},
	}
}

// envKeys maps STUDYHUB_* variables (prefix stripped) to config keys.
var envKeys = map[string]string{
	"VAULT":          "vault",
	"ADAPTER":        "adapter",
	"READONLY":       "readonly",
	"SQLITE_PATH":    "sqlite.path",
	"LOG_LEVEL":      "log.level",
	"PDF_WARN_BYTES": "pdf.warn_bytes",
}

// flagKeys maps flag names whose config key differs from the flag name.
var flagKeys = map[string]string{
	"sqlite-path":    "sqlite.path",
	"log-level":      "log.level",
	"pdf-warn-bytes": "pdf.warn_bytes",
}

// LoadConfig layers defaults, the YAML file at path (optional), .env and
// STUDYHUB_* variables, then the flags explicitly set on flags.
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := DefaultConfig()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read .env: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKeys[strings.TrimPrefix(s, EnvPrefix)]
	}), nil)
	if err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := f.Name
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return cfg, fmt.Errorf("failed to read flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	if err := core.NewValidator().Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Options translates the configuration into factory options.
func (c Config) Options() []Option {
	opts := []Option{
		WithAdapter(c.Adapter),
		WithReadOnly(c.ReadOnly),
		WithPDFWarnBytes(c.PDF.WarnBytes),
	}
	if c.SQLite.Path != "" {
		opts = append(opts, WithSQLitePath(c.SQLite.Path))
	}
	return opts
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
