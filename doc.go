// Package studyhub is the Composition Root for the Study Hub data layer.
//
// It connects the dashboard sections (notes, to-dos, homework, timetable,
// links, PDFs and preferences) with a key-value storage adapter.
//
// Every section is persisted under one fixed key as JSON text. The default
// adapter writes one file per key inside the vault directory; the sqlite
// adapter keeps the same keys in a single database, and the memory adapter
// serves tests and throwaway sessions.
//
// Features:
//
//   - **Typed Sections**: generic collections (`NewCollection[T]`) with stable ids and validation.
//   - **Explicit Loading**: malformed stored values load as empty sections with a warning instead of failing.
//   - **Backup**: export and import of the full dataset, staged in a transaction when the store supports it.
//   - **Watching**: external edits to the vault are reported as change events.
//
// Usage:
//
//	app, err := studyhub.New("./vault", studyhub.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	todo, err := app.Hub.AddTodo(ctx, "Revise algebra")
package studyhub
