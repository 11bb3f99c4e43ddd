package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/aretw0/studyhub/pkg/core"
)

const overwritePrompt = "Importing data will OVERWRITE all your current Study Hub data. Are you sure you want to proceed?"

// requiredKeys must be present and non-null for a document to be accepted.
var requiredKeys = []string{core.KeyNotes, core.KeyTodos, core.KeyTimetable}

// Parse checks that data is a backup document. It does not validate the
// shape of individual items.
func Parse(data []byte) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Snapshot{}, core.Invalid("document", fmt.Sprintf("Invalid backup file format: %v", err))
	}
	if fields == nil {
		return Snapshot{}, core.Invalid("document", "Invalid backup file format: document is null")
	}

	var missing []string
	for _, key := range requiredKeys {
		if isNull(fields[key]) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Snapshot{}, core.Invalid("document",
			fmt.Sprintf("Invalid backup file format: missing %s", strings.Join(missing, ", ")))
	}

	var snap Snapshot
	for _, key := range core.AllKeys {
		raw := fields[key]
		if isNull(raw) {
			continue
		}

		switch key {
		case core.KeyActiveNote, core.KeyDarkMode:
			v, err := scalar(raw)
			if err != nil {
				return Snapshot{}, core.Invalid(key, fmt.Sprintf("%s must be a string: %v", key, err))
			}
			if key == core.KeyActiveNote {
				snap.ActiveNoteID = &v
			} else {
				snap.DarkMode = &v
			}
		default:
			var buf bytes.Buffer
			if err := json.Compact(&buf, raw); err != nil {
				return Snapshot{}, core.Invalid(key, err.Error())
			}
			*snap.field(key) = json.RawMessage(buf.Bytes())
		}
	}
	return snap, nil
}

// scalar reads a JSON string. Other scalars are kept in their JSON text form.
func scalar(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch v.(type) {
	case map[string]any, []any:
		return "", errors.New("not a scalar")
	}
	return string(bytes.TrimSpace(raw)), nil
}

// Import validates data and overwrites every key from it. Keys absent from
// the document are removed. Nothing is written when validation fails or the
// user declines.
func (s *Service) Import(ctx context.Context, data []byte) error {
	snap, err := Parse(data)
	if err != nil {
		return err
	}
	if s.notifier != nil && !s.notifier.Confirm(overwritePrompt) {
		return core.ErrCancelled
	}

	if err := s.Restore(ctx, snap); err != nil {
		return err
	}

	if s.reloader != nil {
		if err := s.reloader.Reload(ctx); err != nil {
			return fmt.Errorf("imported, but reload failed: %w", err)
		}
	}
	if s.notifier != nil {
		s.notifier.Notify("Data imported successfully!")
	}
	return nil
}

// Restore writes snap to the store. On a transactional store all keys are
// staged and committed together; otherwise they are written one by one.
func (s *Service) Restore(ctx context.Context, snap Snapshot) error {
	writes := snap.writes()

	if ts, ok := s.store.(core.Transactional); ok {
		tx, err := ts.Begin(ctx)
		if err != nil {
			return err
		}
		if err := apply(ctx, tx, writes); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error("rollback failed", "error", rbErr)
			}
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		s.logger.Info("backup restored", "keys", len(writes), "transactional", true)
		return nil
	}

	if err := apply(ctx, s.store, writes); err != nil {
		return err
	}
	s.logger.Info("backup restored", "keys", len(writes), "transactional", false)
	return nil
}

// ImportFile imports a backup from disk. The file must carry a .json
// extension and sniff as JSON.
func (s *Service) ImportFile(ctx context.Context, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return core.Invalid("file", "Invalid file type. Please select a JSON file.")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if mt := mimetype.Detect(data); !mt.Is("application/json") {
		return core.Invalid("file", fmt.Sprintf("Invalid file type %s. Please select a JSON file.", mt.String()))
	}
	return s.Import(ctx, data)
}

type write struct {
	key   string
	value *string // nil removes the key
}

func (snap Snapshot) writes() []write {
	ws := make([]write, 0, len(core.AllKeys))
	for _, key := range core.AllKeys {
		var v *string
		switch key {
		case core.KeyActiveNote:
			v = snap.ActiveNoteID
		case core.KeyDarkMode:
			v = snap.DarkMode
		default:
			if raw := *snap.field(key); !isNull(raw) {
				str := string(raw)
				v = &str
			}
		}
		ws = append(ws, write{key: key, value: v})
	}
	return ws
}

// writer is the write half shared by core.Store and core.Transaction.
type writer interface {
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

func apply(ctx context.Context, w writer, writes []write) error {
	for _, wr := range writes {
		var err error
		if wr.value != nil {
			err = w.Set(ctx, wr.key, *wr.value)
		} else {
			err = w.Remove(ctx, wr.key)
		}
		if err != nil {
			return fmt.Errorf("restore %s: %w", wr.key, err)
		}
	}
	return nil
}
