// Package hub wires the Study Hub repositories to a store and to the
// presentation layer.
//
// A Hub is built once at startup with New, filled with Load and then driven by
// UI events. Every mutation is written to the store before the method returns;
// afterwards the affected section is rendered and a change event is published
// on Events.
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/studyhub/pkg/core"
	"github.com/aretw0/studyhub/pkg/typed"
)

// Hub owns every repository of the dashboard.
type Hub struct {
	store core.Store
	opts  *options

	notes     *typed.Collection[core.Note, *core.Note]
	todos     *typed.Collection[core.Todo, *core.Todo]
	homeworks *typed.Collection[core.Homework, *core.Homework]
	links     *typed.Collection[core.Link, *core.Link]
	pdfs      *typed.Collection[core.PDF, *core.PDF]
	timetable *typed.Value[[]core.TimetableRow]
	validator *core.Validator

	// opMu serializes note, timetable and preference operations that read
	// before they write.
	opMu sync.Mutex

	stateMu    sync.RWMutex
	active     string
	prefs      core.Preferences
	loadStatus map[string]typed.LoadStatus
	lastLoad   *time.Time

	eventsMu sync.Mutex
	events   chan core.Event
	closed   bool
	dropped  int
}

// New builds a hub over store. Call Load before use.
func New(store core.Store, opts ...Option) *Hub {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	h := &Hub{
		store:      store,
		opts:       o,
		validator:  core.NewValidator(),
		loadStatus: make(map[string]typed.LoadStatus),
		events:     make(chan core.Event, o.eventBuffer),
	}

	repoOpts := []typed.Option{
		typed.WithLogger(o.logger),
		typed.WithValidator(h.validator),
		typed.WithChangeHook(h.changed),
	}
	if o.newID != nil {
		repoOpts = append(repoOpts, typed.WithIDGenerator(o.newID))
	}

	h.notes = typed.NewCollection[core.Note](store, core.KeyNotes, repoOpts...)
	h.todos = typed.NewCollection[core.Todo](store, core.KeyTodos, repoOpts...)
	h.homeworks = typed.NewCollection[core.Homework](store, core.KeyHomeworks, repoOpts...)
	h.links = typed.NewCollection[core.Link](store, core.KeyLinks, repoOpts...)
	h.pdfs = typed.NewCollection[core.PDF](store, core.KeyPDFs, repoOpts...)
	h.timetable = typed.NewValue(store, core.KeyTimetable, core.DefaultTimetable, repoOpts...)
	return h
}

// Store returns the underlying store.
func (h *Hub) Store() core.Store { return h.store }

// Load reads every repository from the store, restores the active note and
// renders every section. Malformed values load as empty; only storage
// failures are returned.
func (h *Hub) Load(ctx context.Context) error {
	var errs []error
	for _, key := range core.AllKeys {
		if err := h.loadKey(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	now := h.opts.now()
	h.stateMu.Lock()
	h.lastLoad = &now
	h.stateMu.Unlock()

	if err := h.Restore(ctx); err != nil {
		return err
	}
	for _, s := range []core.Section{
		core.SectionNotes, core.SectionPDFs, core.SectionTodos, core.SectionTimetable,
		core.SectionHomeworks, core.SectionLinks, core.SectionPreferences,
	} {
		h.opts.renderer.Render(s)
	}
	return nil
}

// Reload is Load triggered by the user; it confirms with a notice.
func (h *Hub) Reload(ctx context.Context) error {
	if err := h.Load(ctx); err != nil {
		return err
	}
	h.opts.notifier.Notify("All data reloaded!")
	return nil
}

// ReloadKey reloads the repository owning key and renders its section. It
// is used when another writer changed the store.
func (h *Hub) ReloadKey(ctx context.Context, key string) error {
	section, ok := core.SectionForKey(key)
	if !ok {
		return nil
	}
	if err := h.loadKey(ctx, key); err != nil {
		return err
	}
	if section == core.SectionNotes {
		if err := h.Restore(ctx); err != nil {
			return err
		}
	}
	h.opts.renderer.Render(section)
	return nil
}

func (h *Hub) loadKey(ctx context.Context, key string) error {
	var (
		status typed.LoadStatus
		err    error
	)

	switch key {
	case core.KeyNotes:
		status, err = h.notes.LoadStatus(ctx)
	case core.KeyTodos:
		status, err = h.todos.LoadStatus(ctx)
	case core.KeyHomeworks:
		status, err = h.homeworks.LoadStatus(ctx)
	case core.KeyLinks:
		status, err = h.links.LoadStatus(ctx)
	case core.KeyPDFs:
		status, err = h.pdfs.LoadStatus(ctx)
	case core.KeyTimetable:
		status, err = h.timetable.LoadStatus(ctx)
	case core.KeyActiveNote:
		var (
			id string
			ok bool
		)
		id, ok, err = h.store.Get(ctx, key)
		status = typed.LoadAbsent
		if err == nil {
			if ok {
				status = typed.LoadOK
			}
			h.stateMu.Lock()
			h.active = id
			h.stateMu.Unlock()
		}
	case core.KeyDarkMode:
		var (
			v  string
			ok bool
		)
		v, ok, err = h.store.Get(ctx, key)
		status = typed.LoadAbsent
		if err == nil {
			if ok {
				status = typed.LoadOK
			}
			h.stateMu.Lock()
			h.prefs = core.ParsePreferences(v)
			h.stateMu.Unlock()
		}
	default:
		return fmt.Errorf("unknown key %q", key)
	}

	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	h.stateMu.Lock()
	h.loadStatus[key] = status
	h.stateMu.Unlock()
	return nil
}

// Resolve maps a user reference (full id or unique id prefix) to an id in
// the collection stored under key.
func (h *Hub) Resolve(key, ref string) (string, error) {
	switch key {
	case core.KeyNotes:
		return h.notes.Resolve(ref)
	case core.KeyTodos:
		return h.todos.Resolve(ref)
	case core.KeyHomeworks:
		return h.homeworks.Resolve(ref)
	case core.KeyLinks:
		return h.links.Resolve(ref)
	case core.KeyPDFs:
		return h.pdfs.Resolve(ref)
	}
	return "", core.Invalid("key", fmt.Sprintf("%q is not a collection", key))
}

// Events returns the change stream. Events are dropped when the buffer is
// full rather than blocking a mutation.
func (h *Hub) Events() <-chan core.Event {
	return h.events
}

// Close ends the change stream.
func (h *Hub) Close() error {
	h.eventsMu.Lock()
	defer h.eventsMu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.events)
	}
	return nil
}

// changed runs after every successful write.
func (h *Hub) changed(key string) {
	h.publish(core.EventSet, key)
}

func (h *Hub) publish(t core.EventType, key string) {
	if section, ok := core.SectionForKey(key); ok {
		h.opts.renderer.Render(section)
	}

	h.eventsMu.Lock()
	defer h.eventsMu.Unlock()
	if h.closed {
		return
	}
	select {
	case h.events <- core.Event{Type: t, Key: key, Timestamp: h.opts.now().Unix()}:
	default:
		h.dropped++
		h.opts.logger.Debug("event buffer full, dropping event", "key", key)
	}
}

// confirm asks the notifier and maps a refusal to core.ErrCancelled.
func (h *Hub) confirm(prompt string) error {
	if !h.opts.notifier.Confirm(prompt) {
		return core.ErrCancelled
	}
	return nil
}
