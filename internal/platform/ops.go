package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/studyhub/pkg/adapters/fs"
	"github.com/aretw0/studyhub/pkg/adapters/memory"
	"github.com/aretw0/studyhub/pkg/adapters/sqlite"
	"github.com/aretw0/studyhub/pkg/core"
)

// OpenStore builds and initializes the store selected by the options.
// The 'uri' argument is the vault directory. The sqlite adapter keeps its
// database inside it unless WithSQLitePath says otherwise.
func OpenStore(uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return openStore(context.Background(), uri, o)
}

func openStore(ctx context.Context, uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	var store core.Store
	var err error

	switch o.adapter {
	case AdapterFS:
		store, err = initFS(uri, o)
	case AdapterSQLite:
		store, err = initSQLite(uri, o)
	case AdapterMemory:
		store = memory.New(nil)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// resolvePath applies the dev sandbox rules to the vault path.
func resolvePath(path string, o *options) string {
	readOnly := o.flag("read_only")

	// Default to true (safe) if not present.
	devSafety := true
	if v, ok := o.config["dev_safety"].(bool); ok {
		devSafety = v
	}

	// Read-only access is inherently safe.
	bypassSafety := readOnly || !devSafety
	useTemp := o.flag("temp_dir") || (IsDevRun() && !bypassSafety)
	resolved := ResolveVaultPath(path, useTemp)

	if o.logger != nil {
		switch {
		case useTemp:
			o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
		case IsDevRun() && readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case IsDevRun():
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	return resolved
}

// initFS handles the initialization logic for the Filesystem adapter
func initFS(path string, o *options) (core.Store, error) {
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	systemDir := o.text("system_dir")
	if systemDir == "" {
		systemDir = DefaultSystemDir
	}

	return fs.NewStore(fs.Config{
		Path:         resolvePath(path, o),
		MustExist:    o.flag("must_exist"),
		ReadOnly:     o.flag("read_only"),
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	}), nil
}

// initSQLite resolves the database file and makes sure its directory exists.
func initSQLite(path string, o *options) (core.Store, error) {
	dbPath := o.text("sqlite_path")
	if dbPath == "" {
		dbPath = filepath.Join(resolvePath(path, o), DefaultDatabase)
	}

	if o.flag("must_exist") || o.flag("read_only") {
		if _, err := os.Stat(dbPath); err != nil {
			return nil, fmt.Errorf("database %s: %w", dbPath, err)
		}
	} else if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	return sqlite.NewStore(sqlite.Config{
		Path:     dbPath,
		ReadOnly: o.flag("read_only"),
		Logger:   o.logger,
	}), nil
}
