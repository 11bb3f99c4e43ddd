// Package core holds the Study Hub domain: the entities stored in the
// key-value store, the store contracts and the shared error taxonomy.
package core

import (
	"fmt"
	"time"
)

// Storage keys. Each entity collection or singleton owns exactly one key.
const (
	KeyNotes      = "allNotes"
	KeyActiveNote = "activeNoteId"
	KeyTodos      = "todos"
	KeyTimetable  = "timetable"
	KeyHomeworks  = "homeworks"
	KeyLinks      = "links"
	KeyPDFs       = "pdfs"
	KeyDarkMode   = "darkMode"
)

// AllKeys lists every key the dashboard persists, in backup order.
var AllKeys = []string{
	KeyNotes, KeyActiveNote, KeyTodos, KeyTimetable,
	KeyHomeworks, KeyLinks, KeyPDFs, KeyDarkMode,
}

// Section names a part of the dashboard that the presentation layer redraws.
type Section string

const (
	SectionNotes       Section = "notes"
	SectionTodos       Section = "todos"
	SectionHomeworks   Section = "homeworks"
	SectionLinks       Section = "links"
	SectionPDFs        Section = "pdfs"
	SectionTimetable   Section = "timetable"
	SectionPreferences Section = "preferences"
)

// SectionForKey maps a storage key to the section that displays it.
func SectionForKey(key string) (Section, bool) {
	switch key {
	case KeyNotes, KeyActiveNote:
		return SectionNotes, true
	case KeyTodos:
		return SectionTodos, true
	case KeyHomeworks:
		return SectionHomeworks, true
	case KeyLinks:
		return SectionLinks, true
	case KeyPDFs:
		return SectionPDFs, true
	case KeyTimetable:
		return SectionTimetable, true
	case KeyDarkMode:
		return SectionPreferences, true
	}
	return "", false
}

// Note is a titled rich-text document. Content is the editor's serialized
// document and is opaque to the data layer.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Todo is a single task.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text" validate:"required"`
	Completed bool   `json:"completed"`
}

// Homework is a task with a due date in YYYY-MM-DD form.
type Homework struct {
	ID        string `json:"id"`
	Text      string `json:"text" validate:"required"`
	DueDate   string `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Completed bool   `json:"completed"`
}

// Link is a named bookmark.
type Link struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

// PDF is a document stored inline as a base64 data URL.
type PDF struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
	Data string `json:"data" validate:"required"`
}

// Weekdays is the number of class columns in a timetable row.
const Weekdays = 5

// TimetableRow is one time slot with a class per weekday.
// Extra classes in stored data are dropped on decode.
type TimetableRow struct {
	Time    string           `json:"time" validate:"required"`
	Classes [Weekdays]string `json:"classes"`
}

// DefaultTimetable returns the table shown when nothing has been saved yet.
func DefaultTimetable() []TimetableRow {
	times := []string{"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM"}
	rows := make([]TimetableRow, len(times))
	for i, t := range times {
		rows[i] = TimetableRow{Time: t}
	}
	return rows
}

// Preferences is the singleton user preference record.
type Preferences struct {
	DarkMode bool `json:"darkMode"`
}

// Persisted darkMode values.
const (
	DarkModeEnabled  = "enabled"
	DarkModeDisabled = "disabled"
)

// DarkModeValue returns the literal stored under KeyDarkMode.
func (p Preferences) DarkModeValue() string {
	if p.DarkMode {
		return DarkModeEnabled
	}
	return DarkModeDisabled
}

// ParsePreferences reads the stored darkMode literal. Anything other than
// "enabled" means dark mode is off.
func ParsePreferences(darkMode string) Preferences {
	return Preferences{DarkMode: darkMode == DarkModeEnabled}
}

// EntityID and SetEntityID give the generic collections access to ids.

func (n Note) EntityID() string { return n.ID }
func (n *Note) SetEntityID(id string) { n.ID = id }
func (t Todo) EntityID() string { return t.ID }
func (t *Todo) SetEntityID(id string) { t.ID = id }
func (h Homework) EntityID() string { return h.ID }
func (h *Homework) SetEntityID(id string) { h.ID = id }
func (l Link) EntityID() string { return l.ID }
func (l *Link) SetEntityID(id string) { l.ID = id }
func (p PDF) EntityID() string { return p.ID }
func (p *PDF) SetEntityID(id string) { p.ID = id }

// EventType represents the type of change in the store.
type EventType string

const (
	EventSet    EventType = "SET"
	EventRemove EventType = "REMOVE"
)

// Event represents a change to one key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
