package hub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/studyhub/pkg/core"
)

// Notes returns the notes in insertion order.
func (h *Hub) Notes() []core.Note { return h.notes.Items() }

// Note returns the note with the given id.
func (h *Hub) Note(id string) (core.Note, bool) { return h.notes.Find(id) }

// ActiveNoteID returns the id of the open note, or "" when none is open.
func (h *Hub) ActiveNoteID() string {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	return h.active
}

// SwitchActive opens the note with the given id. The editor content of the
// previously open note is persisted before the new note is loaded. An
// unknown id clears the active note and returns an error matching
// core.ErrNotFound.
func (h *Hub) SwitchActive(ctx context.Context, id string) error {
	h.opMu.Lock()
	defer h.opMu.Unlock()
	return h.switchLocked(ctx, id)
}

func (h *Hub) switchLocked(ctx context.Context, id string) error {
	note, ok := h.notes.Find(id)
	if !ok {
		h.opts.editor.SetContents(TextDocument(PlaceholderNotFound))
		h.opts.editor.SetTitle(TitleNotLoaded)
		if err := h.setActive(ctx, ""); err != nil {
			return err
		}
		h.opts.renderer.Render(core.SectionNotes)
		return core.NotFound("note", id)
	}

	if current := h.ActiveNoteID(); current != "" && current != id {
		if err := h.flushLocked(ctx, current); err != nil {
			return err
		}
	}

	h.opts.editor.SetContents(note.Content)
	h.opts.editor.SetTitle(note.Title)
	if err := h.setActive(ctx, id); err != nil {
		return err
	}
	h.opts.renderer.Render(core.SectionNotes)
	return nil
}

// setActive persists activeNoteId. An empty id removes the key. Writing the
// id already stored is skipped. A read-only store keeps the change in memory
// for this session only.
func (h *Hub) setActive(ctx context.Context, id string) error {
	if h.ActiveNoteID() == id {
		return nil
	}

	var err error
	if id == "" {
		err = h.store.Remove(ctx, core.KeyActiveNote)
	} else {
		err = h.store.Set(ctx, core.KeyActiveNote, id)
	}
	if errors.Is(err, core.ErrReadOnly) {
		h.opts.logger.Debug("active note not persisted", "id", id, "error", err)
		h.stateMu.Lock()
		h.active = id
		h.stateMu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}

	h.stateMu.Lock()
	h.active = id
	h.stateMu.Unlock()

	if id == "" {
		h.publish(core.EventRemove, core.KeyActiveNote)
	} else {
		h.publish(core.EventSet, core.KeyActiveNote)
	}
	return nil
}

// flushLocked copies the editor document into note id and persists it. A
// note that no longer exists is skipped.
func (h *Hub) flushLocked(ctx context.Context, id string) error {
	contents := h.opts.editor.Contents()
	_, err := h.notes.Update(ctx, id, func(n *core.Note) error {
		n.Content = contents
		return nil
	})
	if errors.Is(err, core.ErrNotFound) {
		h.opts.logger.Debug("active note vanished before flush", "id", id)
		return nil
	}
	return err
}

// CreateNote flushes the open note, creates a note with the default
// document and opens it.
func (h *Hub) CreateNote(ctx context.Context, title string) (core.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return core.Note{}, core.Invalid("title", "Note title cannot be empty!")
	}

	h.opMu.Lock()
	defer h.opMu.Unlock()

	if current := h.ActiveNoteID(); current != "" {
		if err := h.flushLocked(ctx, current); err != nil {
			return core.Note{}, err
		}
	}

	note, err := h.notes.Create(ctx, core.Note{
		Title:     title,
		Content:   TextDocument(NewNoteText),
		CreatedAt: h.opts.now().UTC(),
	})
	if err != nil {
		return core.Note{}, err
	}

	if err := h.switchToFresh(ctx, note); err != nil {
		return note, err
	}

	h.opts.notifier.Notify(fmt.Sprintf("New note %q created!", note.Title))
	return note, nil
}

// switchToFresh opens note without flushing the editor into the previously
// open note, which has already been flushed.
func (h *Hub) switchToFresh(ctx context.Context, note core.Note) error {
	h.opts.editor.SetContents(note.Content)
	h.opts.editor.SetTitle(note.Title)
	if err := h.setActive(ctx, note.ID); err != nil {
		return err
	}
	h.opts.renderer.Render(core.SectionNotes)
	return nil
}

// SaveActive persists the editor document into the open note.
func (h *Hub) SaveActive(ctx context.Context) (core.Note, error) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	id := h.ActiveNoteID()
	if id == "" {
		return core.Note{}, core.ErrNoActiveNote
	}

	contents := h.opts.editor.Contents()
	note, err := h.notes.Update(ctx, id, func(n *core.Note) error {
		n.Content = contents
		return nil
	})
	if errors.Is(err, core.ErrNotFound) {
		return core.Note{}, fmt.Errorf("note %q: %w", id, core.ErrNoActiveNote)
	}
	if err != nil {
		return core.Note{}, err
	}

	h.opts.notifier.Notify(fmt.Sprintf("Note %q saved!", note.Title))
	return note, nil
}

// RenameNote changes a note title. The open note's title display follows.
func (h *Hub) RenameNote(ctx context.Context, id, title string) (core.Note, error) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	title = strings.TrimSpace(title)
	note, err := h.notes.Update(ctx, id, func(n *core.Note) error {
		n.Title = title
		return nil
	})
	if err != nil {
		return core.Note{}, err
	}
	if h.ActiveNoteID() == id {
		h.opts.editor.SetTitle(note.Title)
	}
	return note, nil
}

// DeleteNote removes a note after confirmation. Deleting the open note
// clears activeNoteId and shows a placeholder.
func (h *Hub) DeleteNote(ctx context.Context, id string) error {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	title := "this note"
	if n, ok := h.notes.Find(id); ok {
		title = n.Title
	}
	if err := h.confirm(fmt.Sprintf("Are you sure you want to delete %q?", title)); err != nil {
		return err
	}

	if err := h.notes.Delete(ctx, id); err != nil {
		return err
	}

	if h.ActiveNoteID() == id {
		h.opts.editor.SetContents(TextDocument(PlaceholderDeleted))
		h.opts.editor.SetTitle(TitleNotLoaded)
		if err := h.setActive(ctx, ""); err != nil {
			return err
		}
	}

	h.opts.notifier.Notify("Note deleted.")
	return nil
}

// Restore opens the stored active note, else the first note, else shows the
// welcome placeholder. A stale active note id is cleared, not returned.
func (h *Hub) Restore(ctx context.Context) error {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	if id := h.ActiveNoteID(); id != "" {
		err := h.switchLocked(ctx, id)
		if errors.Is(err, core.ErrNotFound) {
			h.opts.logger.Warn("stored active note does not exist, cleared", "id", id)
			return nil
		}
		return err
	}

	if notes := h.notes.Items(); len(notes) > 0 {
		return h.switchLocked(ctx, notes[0].ID)
	}

	h.opts.editor.SetContents(TextDocument(PlaceholderWelcome))
	h.opts.editor.SetTitle(TitleNotLoaded)
	return nil
}
