package hub

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/studyhub/pkg/core"
)

// Timetable returns the current table, or the default one when nothing has
// been saved.
func (h *Hub) Timetable() []core.TimetableRow { return h.timetable.Get() }

// SaveTimetable replaces the whole table. Cells are trimmed; every row needs
// a time label.
func (h *Hub) SaveTimetable(ctx context.Context, rows []core.TimetableRow) error {
	h.opMu.Lock()
	defer h.opMu.Unlock()
	return h.saveTimetableLocked(ctx, rows)
}

func (h *Hub) saveTimetableLocked(ctx context.Context, rows []core.TimetableRow) error {
	clean := make([]core.TimetableRow, len(rows))
	for i, r := range rows {
		r.Time = strings.TrimSpace(r.Time)
		for d := range r.Classes {
			r.Classes[d] = strings.TrimSpace(r.Classes[d])
		}
		if err := h.validator.Struct(r); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		clean[i] = r
	}

	if err := h.timetable.Set(ctx, clean); err != nil {
		return err
	}
	h.opts.notifier.Notify("Timetable saved!")
	return nil
}

// SetClass updates one cell, addressed by the row's time label and a
// weekday column (0 is Monday).
func (h *Hub) SetClass(ctx context.Context, timeLabel string, day int, class string) error {
	if day < 0 || day >= core.Weekdays {
		return core.Invalid("day", fmt.Sprintf("day must be between 0 and %d", core.Weekdays-1))
	}

	h.opMu.Lock()
	defer h.opMu.Unlock()

	rows := h.timetable.Get()
	for i := range rows {
		if strings.EqualFold(rows[i].Time, strings.TrimSpace(timeLabel)) {
			rows[i].Classes[day] = class
			return h.saveTimetableLocked(ctx, rows)
		}
	}
	return core.NotFound("timetable row", timeLabel)
}

// ResetTimetable forgets the saved table so the default applies again.
func (h *Hub) ResetTimetable(ctx context.Context) error {
	h.opMu.Lock()
	defer h.opMu.Unlock()
	return h.timetable.Reset(ctx)
}
