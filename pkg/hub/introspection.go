package hub

import (
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/studyhub/pkg/core"
)

// HubState exposes internal state for observability.
type HubState struct {
	StoreType     string            `json:"store_type"`
	Store         any               `json:"store,omitempty"`
	ActiveNoteID  string            `json:"active_note_id,omitempty"`
	DarkMode      bool              `json:"dark_mode"`
	Counts        map[string]int    `json:"counts"`
	LoadStatus    map[string]string `json:"load_status"`
	LastLoad      *time.Time        `json:"last_load,omitempty"`
	EventBuffer   int               `json:"event_buffer"`
	DroppedEvents int               `json:"dropped_events"`
}

// State implements introspection.Introspectable.
func (h *Hub) State() any {
	storeType := "store"
	var storeState any
	if comp, ok := h.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}
	if in, ok := h.store.(introspection.Introspectable); ok {
		storeState = in.State()
	}

	counts := map[string]int{
		core.KeyNotes:     h.notes.Len(),
		core.KeyTodos:     h.todos.Len(),
		core.KeyHomeworks: h.homeworks.Len(),
		core.KeyLinks:     h.links.Len(),
		core.KeyPDFs:      h.pdfs.Len(),
		core.KeyTimetable: len(h.timetable.Get()),
	}

	h.stateMu.RLock()
	status := make(map[string]string, len(h.loadStatus))
	for k, s := range h.loadStatus {
		status[k] = s.String()
	}
	state := HubState{
		StoreType:    storeType,
		Store:        storeState,
		ActiveNoteID: h.active,
		DarkMode:     h.prefs.DarkMode,
		Counts:       counts,
		LoadStatus:   status,
		LastLoad:     h.lastLoad,
	}
	h.stateMu.RUnlock()

	h.eventsMu.Lock()
	state.EventBuffer = cap(h.events)
	state.DroppedEvents = h.dropped
	h.eventsMu.Unlock()

	return state
}

// ComponentType implements introspection.Component.
func (h *Hub) ComponentType() string {
	return "hub"
}

var _ introspection.Introspectable = (*Hub)(nil)
var _ introspection.Component = (*Hub)(nil)
