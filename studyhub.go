package studyhub

import (
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/aretw0/studyhub/internal/platform"
	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/hub"
)

// --- Types ---

// App bundles the opened store, the hub and the backup service.
type App = platform.App

// Config is the layered configuration read by the CLI.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring Study Hub.
type Option = platform.Option

// WithLogger sets the logger for the store, the hub and the backup service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".studyhub").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithSQLitePath sets the database file for the sqlite adapter.
func WithSQLitePath(path string) Option {
	return platform.WithSQLitePath(path)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for file watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithNotifier sets the notice and confirmation collaborator.
func WithNotifier(n hub.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithPDFWarnBytes sets the PDF size above which uploads trigger a warning.
func WithPDFWarnBytes(n int64) Option {
	return platform.WithPDFWarnBytes(n)
}

// WithEventBuffer allows specifying the size of the change event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithHubOptions passes options straight to the hub.
func WithHubOptions(opts ...hub.Option) Option {
	return platform.WithHubOptions(opts...)
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// LoadConfig layers defaults, the YAML file at path, .env and STUDYHUB_*
// variables, then the flags explicitly set on flags.
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	return platform.LoadConfig(path, flags)
}

// --- Factory ---

// New opens the vault at path and loads the hub.
func New(path string, opts ...Option) (*App, error) {
	return platform.New(path, opts...)
}

// OpenStore opens only the storage adapter.
func OpenStore(path string, opts ...Option) (core.Store, error) {
	return platform.OpenStore(path, opts...)
}

// --- Safety & Utils ---

// ResolveVaultPath determines the actual path for the vault based on safety rules.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	return platform.ResolveVaultPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindVaultRoot recursively looks upwards for a vault root indicator.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
