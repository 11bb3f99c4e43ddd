package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/studyhub/pkg/core"
)

// DebounceInterval coalesces bursts of filesystem events for one key.
const DebounceInterval = 50 * time.Millisecond

// Watch reports changes made to keys matching pattern by any writer,
// including other processes sharing the vault. The channel is closed when
// ctx is cancelled.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, core.Invalid("pattern", fmt.Sprintf("invalid watch pattern %q", pattern))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &core.StorageError{Op: "watch", Err: fmt.Errorf("failed to create watcher: %w", err)}
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, &core.StorageError{Op: "watch", Err: fmt.Errorf("failed to watch %s: %w", s.Path, err)}
	}

	events := make(chan core.Event)
	w := &watchLoop{
		store:     s,
		pattern:   pattern,
		events:    events,
		watcher:   watcher,
		debouncer: newDebouncer(DebounceInterval),
		done:      make(chan struct{}),
	}
	s.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		if s.config.ErrorHandler != nil {
			s.config.ErrorHandler(fmt.Errorf("watcher failed: %w", err))
		} else {
			s.config.Logger.Error("watcher failed", "error", err)
		}
	}))

	return events, nil
}

type watchLoop struct {
	store     *Store
	pattern   string
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	done      chan struct{}
}

func (w *watchLoop) run(ctx context.Context) (err error) {
	logger := w.store.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer func() {
		// Pending timers may still send; wait for them before closing the channel.
		close(w.done)
		w.debouncer.stopAndWait()
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	return w.loop(ctx)
}

func (w *watchLoop) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.store.config.Logger.Error("fsnotify error", "error", wErr)
			if w.store.config.ErrorHandler != nil {
				w.store.config.ErrorHandler(wErr)
			}
		}
	}
}

func (w *watchLoop) process(ctx context.Context, event fsnotify.Event) {
	key, ok := w.store.keyFor(filepath.Base(event.Name))
	if !ok {
		return
	}
	if matched, _ := doublestar.Match(w.pattern, key); !matched {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventRemove
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		eType = core.EventSet
	default:
		return
	}

	w.store.config.Logger.Debug("event received", "key", key, "type", eType)
	w.store.recordEvent()

	w.debouncer.add(core.Event{Type: eType, Key: key, Timestamp: time.Now().Unix()}, func(e core.Event) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		case <-w.done:
		}
	})
}

// debouncer keeps the last event per key and emits it once the key has been
// quiet for the interval.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	pending  map[string]*time.Timer
	stopped  bool
	wg       sync.WaitGroup
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		pending:  make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.pending[e.Key]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[e.Key] == t {
			delete(d.pending, e.Key)
		}
		d.mu.Unlock()
		emit(e)
	})
	d.pending[e.Key] = t
}

// stopAndWait drops new events and waits for in-flight timers to finish.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
