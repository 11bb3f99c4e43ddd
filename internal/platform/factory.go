package platform

import (
	"context"
	"errors"
	"io"

	"github.com/aretw0/studyhub/pkg/backup"
	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/hub"
)

// App bundles the store with the services built on top of it.
type App struct {
	Store  core.Store
	Hub    *hub.Hub
	Backup *backup.Service
}

// New opens the store at uri, wires the hub and the backup service and loads
// every section.
//
//	app, err := studyhub.New("./vault", studyhub.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ctx := context.Background()
	store, err := openStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	var hubOpts []hub.Option
	var backupOpts []backup.Option
	if o.logger != nil {
		hubOpts = append(hubOpts, hub.WithLogger(o.logger))
		backupOpts = append(backupOpts, backup.WithLogger(o.logger))
	}
	if o.notifier != nil {
		hubOpts = append(hubOpts, hub.WithNotifier(o.notifier))
		backupOpts = append(backupOpts, backup.WithNotifier(o.notifier))
	}
	hubOpts = append(hubOpts, o.hubOpts...)

	h := hub.New(store, hubOpts...)
	app := &App{
		Store:  store,
		Hub:    h,
		Backup: backup.New(store, append(backupOpts, backup.WithReloader(h))...),
	}

	if err := h.Load(ctx); err != nil {
		return nil, errors.Join(err, app.Close())
	}
	return app, nil
}

// Close stops the hub and releases the store when it holds resources.
func (a *App) Close() error {
	err := a.Hub.Close()
	if c, ok := a.Store.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}
