package platform

import (
	"log/slog"

	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/hub"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// DefaultSystemDir is the hidden directory that marks a vault.
const DefaultSystemDir = ".studyhub"

// DefaultDatabase is the database file name used by the sqlite adapter when
// no explicit path is configured.
const DefaultDatabase = "studyhub.db"

// options holds the internal configuration for the Study Hub application.
type options struct {
	store    core.Store
	logger   *slog.Logger
	adapter  string
	notifier hub.Notifier
	hubOpts  []hub.Option
	config   map[string]interface{}
}

// Option defines a functional option for configuring Study Hub.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		config:  make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the store, the hub and the backup service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom storage adapter (e.g. a mock).
// If provided, adapter selection is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite" or "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Writes return core.ErrReadOnly.
// 2. Directories and schemas are not created.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithSystemDir allows specifying the hidden directory name.
// Defaults to ".studyhub".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithSQLitePath sets the database file for the sqlite adapter.
// Defaults to <vault>/studyhub.db.
func WithSQLitePath(path string) Option {
	return func(o *options) {
		o.config["sqlite_path"] = path
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via `go run`.
// By default (true), the vault is re-rooted into a temporary directory to
// prevent accidental data loss.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// file watcher loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithNotifier sets the notice and confirmation collaborator shared by the
// hub and the backup service.
func WithNotifier(n hub.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithPDFWarnBytes sets the PDF size above which uploads trigger a warning.
func WithPDFWarnBytes(n int64) Option {
	return func(o *options) {
		o.hubOpts = append(o.hubOpts, hub.WithPDFWarnBytes(n))
	}
}

// WithEventBuffer allows specifying the size of the hub's change event buffer.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.hubOpts = append(o.hubOpts, hub.WithEventBuffer(size))
	}
}

// WithHubOptions passes options straight to the hub (renderer, editor, clock).
func WithHubOptions(opts ...hub.Option) Option {
	return func(o *options) {
		o.hubOpts = append(o.hubOpts, opts...)
	}
}

func (o *options) flag(key string) bool {
	v, _ := o.config[key].(bool)
	return v
}

func (o *options) text(key string) string {
	v, _ := o.config[key].(string)
	return v
}
