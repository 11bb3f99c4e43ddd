package hub

import (
	"context"

	"github.com/aretw0/studyhub/pkg/core"
)

// Preferences returns the user preferences.
func (h *Hub) Preferences() core.Preferences {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	return h.prefs
}

// SetDarkMode persists the dark-mode preference as "enabled" or "disabled".
func (h *Hub) SetDarkMode(ctx context.Context, enabled bool) error {
	h.opMu.Lock()
	defer h.opMu.Unlock()
	return h.setDarkModeLocked(ctx, enabled)
}

// ToggleDarkMode flips dark mode and returns the new setting.
func (h *Hub) ToggleDarkMode(ctx context.Context) (bool, error) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	enabled := !h.Preferences().DarkMode
	if err := h.setDarkModeLocked(ctx, enabled); err != nil {
		return !enabled, err
	}
	return enabled, nil
}

func (h *Hub) setDarkModeLocked(ctx context.Context, enabled bool) error {
	prefs := core.Preferences{DarkMode: enabled}
	if err := h.store.Set(ctx, core.KeyDarkMode, prefs.DarkModeValue()); err != nil {
		return err
	}

	h.stateMu.Lock()
	h.prefs = prefs
	h.stateMu.Unlock()

	h.publish(core.EventSet, core.KeyDarkMode)
	return nil
}
