// Package backup exports the whole store as one JSON document and restores
// it again.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/studyhub/pkg/core"
)

// Snapshot is the backup document. Collections are kept as raw JSON so a
// restore writes back exactly what the backup holds. Absent keys are omitted.
type Snapshot struct {
	AllNotes     json.RawMessage `json:"allNotes,omitempty"`
	ActiveNoteID *string         `json:"activeNoteId,omitempty"`
	Todos        json.RawMessage `json:"todos,omitempty"`
	Timetable    json.RawMessage `json:"timetable,omitempty"`
	Homeworks    json.RawMessage `json:"homeworks,omitempty"`
	Links        json.RawMessage `json:"links,omitempty"`
	PDFs         json.RawMessage `json:"pdfs,omitempty"`
	DarkMode     *string         `json:"darkMode,omitempty"`
}

// Reloader refreshes in-memory state after a restore.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Notifier shows notices and confirms destructive actions.
type Notifier interface {
	Notify(msg string)
	Confirm(prompt string) bool
}

// Service exports and imports snapshots of a store.
type Service struct {
	store    core.Store
	logger   *slog.Logger
	reloader Reloader
	notifier Notifier
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReloader registers what to reload after a successful import.
func WithReloader(r Reloader) Option {
	return func(s *Service) {
		s.reloader = r
	}
}

// WithNotifier sets the confirmation and notice collaborator. Without one,
// imports proceed without asking.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithClock replaces time.Now, used for backup file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a backup service over store.
func New(store core.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export reads every persisted value, not the in-memory working copies.
// Stored collections that are not valid JSON are skipped with a warning so
// the backup stays a valid document.
func (s *Service) Export(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	for _, key := range core.AllKeys {
		raw, ok, err := s.store.Get(ctx, key)
		if err != nil {
			return Snapshot{}, fmt.Errorf("export %s: %w", key, err)
		}
		if !ok {
			continue
		}

		switch key {
		case core.KeyActiveNote:
			snap.ActiveNoteID = &raw
		case core.KeyDarkMode:
			snap.DarkMode = &raw
		default:
			if !json.Valid([]byte(raw)) {
				s.logger.Warn("skipping malformed stored value in export", "key", key)
				continue
			}
			*snap.field(key) = json.RawMessage(raw)
		}
	}
	return snap, nil
}

// FileName is the download name for a backup taken at t.
func (s *Service) FileName() string {
	return FileName(s.now())
}

// FileName returns study_hub_backup_<YYYY-MM-DD>.json for t.
func FileName(t time.Time) string {
	return "study_hub_backup_" + t.Format("2006-01-02") + ".json"
}

// field returns the collection slot for key.
func (snap *Snapshot) field(key string) *json.RawMessage {
	switch key {
	case core.KeyNotes:
		return &snap.AllNotes
	case core.KeyTodos:
		return &snap.Todos
	case core.KeyTimetable:
		return &snap.Timetable
	case core.KeyHomeworks:
		return &snap.Homeworks
	case core.KeyLinks:
		return &snap.Links
	case core.KeyPDFs:
		return &snap.PDFs
	}
	return nil
}

// isNull reports whether a raw value is absent or JSON null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
