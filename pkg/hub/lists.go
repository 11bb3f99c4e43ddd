package hub

import (
	"context"
	"strings"

	"github.com/aretw0/studyhub/pkg/core"
)

// Todos returns the to-do list.
func (h *Hub) Todos() []core.Todo { return h.todos.Items() }

// AddTodo appends a task.
func (h *Hub) AddTodo(ctx context.Context, text string) (core.Todo, error) {
	return h.todos.Create(ctx, core.Todo{Text: strings.TrimSpace(text)})
}

// ToggleTodo flips a task's completed flag.
func (h *Hub) ToggleTodo(ctx context.Context, id string) (core.Todo, error) {
	return h.todos.Update(ctx, id, func(t *core.Todo) error {
		t.Completed = !t.Completed
		return nil
	})
}

// DeleteTodo removes a task.
func (h *Hub) DeleteTodo(ctx context.Context, id string) error {
	return h.todos.Delete(ctx, id)
}

// Homeworks returns the homework tracker entries.
func (h *Hub) Homeworks() []core.Homework { return h.homeworks.Items() }

// AddHomework appends an assignment due on dueDate (YYYY-MM-DD).
func (h *Hub) AddHomework(ctx context.Context, text, dueDate string) (core.Homework, error) {
	return h.homeworks.Create(ctx, core.Homework{
		Text:    strings.TrimSpace(text),
		DueDate: strings.TrimSpace(dueDate),
	})
}

// ToggleHomework flips an assignment's completed flag.
func (h *Hub) ToggleHomework(ctx context.Context, id string) (core.Homework, error) {
	return h.homeworks.Update(ctx, id, func(hw *core.Homework) error {
		hw.Completed = !hw.Completed
		return nil
	})
}

// DeleteHomework removes an assignment.
func (h *Hub) DeleteHomework(ctx context.Context, id string) error {
	return h.homeworks.Delete(ctx, id)
}

// Links returns the bookmarks.
func (h *Hub) Links() []core.Link { return h.links.Items() }

// AddLink appends a bookmark. The URL must be absolute and well formed.
func (h *Hub) AddLink(ctx context.Context, name, url string) (core.Link, error) {
	return h.links.Create(ctx, core.Link{
		Name: strings.TrimSpace(name),
		URL:  strings.TrimSpace(url),
	})
}

// DeleteLink removes a bookmark.
func (h *Hub) DeleteLink(ctx context.Context, id string) error {
	return h.links.Delete(ctx, id)
}
