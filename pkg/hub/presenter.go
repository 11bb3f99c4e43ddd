package hub

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/aretw0/studyhub/pkg/core"
)

// Renderer redraws one section of the dashboard. It is called after every
// successful mutation of that section.
type Renderer interface {
	Render(section core.Section)
}

// Notifier shows blocking notices and asks for confirmation before
// destructive actions.
type Notifier interface {
	Notify(msg string)
	Confirm(prompt string) bool
}

// Editor is the rich-text editing surface holding the active note.
// Contents are the editor's serialized document, opaque to the hub.
type Editor interface {
	Contents() string
	SetContents(doc string)
	SetTitle(title string)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(section core.Section)

func (f RendererFunc) Render(section core.Section) { f(section) }

type nopRenderer struct{}

func (nopRenderer) Render(core.Section) {}

// autoNotifier drops notices and approves every confirmation.
type autoNotifier struct{}

func (autoNotifier) Notify(string) {}
func (autoNotifier) Confirm(string) bool { return true }

// TitleNotLoaded is shown as the title when no note is open.
const TitleNotLoaded = "Not Loaded"

// Placeholder texts shown in the editor when no note is open.
const (
	PlaceholderWelcome  = `Welcome to your Study Hub Notes! Click "New Note" to get started.`
	PlaceholderNotFound = "Note not found. Create a new one."
	PlaceholderDeleted  = "Note deleted. Create or load another note."
	NewNoteText         = "Start writing your new note here..."
)

// TextDocument builds an editor document holding plain text.
func TextDocument(text string) string {
	data, _ := json.Marshal([]map[string]string{{"insert": text}})
	return string(data)
}

type deltaOp struct {
	Insert any `json:"insert"`
}

// PlainText extracts the text inserts of an editor document. Embeds are
// skipped. A document that is not an insert list is returned unchanged.
func PlainText(doc string) string {
	var ops []deltaOp
	if err := json.Unmarshal([]byte(doc), &ops); err != nil {
		var wrapped struct {
			Ops []deltaOp `json:"ops"`
		}
		if err := json.Unmarshal([]byte(doc), &wrapped); err != nil || wrapped.Ops == nil {
			return doc
		}
		ops = wrapped.Ops
	}

	var b strings.Builder
	for _, op := range ops {
		if s, ok := op.Insert.(string); ok {
			b.WriteString(s)
		}
	}
	return b.String()
}

// MemoryEditor is an Editor that keeps its document in memory. It backs the
// CLI, where there is no interactive editing surface.
type MemoryEditor struct {
	mu       sync.Mutex
	contents string
	title    string
}

func (e *MemoryEditor) Contents() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contents
}

func (e *MemoryEditor) SetContents(doc string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.contents = doc
}

func (e *MemoryEditor) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title = title
}

// Title returns the title last shown.
func (e *MemoryEditor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}
