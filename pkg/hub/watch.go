package hub

import (
	"context"
	"errors"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/studyhub/pkg/core"
)

// ErrNotWatchable is returned by Watch when the store cannot report changes.
var ErrNotWatchable = errors.New("store does not support watching")

// Watch observes changes other writers make to the store.
func (h *Hub) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w, ok := h.store.(core.Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	return w.Watch(ctx, pattern)
}

// Follow starts src and reloads the affected repository for every store
// event it emits, until the source closes or ctx is done. Reload failures
// are logged and do not stop the loop. onEvent, when set, runs after each
// reload.
func (h *Hub) Follow(ctx context.Context, src lifecycle.Source, onEvent func(core.Event, error)) error {
	if err := src.Start(ctx); err != nil {
		return err
	}

	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e, isChange := ev.(core.Event)
			if !isChange {
				continue
			}

			err := h.ReloadKey(ctx, e.Key)
			if err != nil {
				h.opts.logger.Error("failed to reload after change", "key", e.Key, "error", err)
			} else {
				h.opts.logger.Debug("reloaded after change", "key", e.Key, "type", e.Type)
			}
			if onEvent != nil {
				onEvent(e, err)
			}
		}
	}
}
