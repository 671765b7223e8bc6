package expander

import (
	"fmt"
	"strings"

	"day-planner/internal/domain"
)

// View is the calendar layout an occurrence list is rendered into.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// ParseView parses a view name. The empty string is the day view.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewDay:
		return ViewDay, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	default:
		return "", fmt.Errorf("unknown view %q: expected day, week or month", s)
	}
}

// Range returns the dates a view shows around date: the date itself for the
// day view, Sunday through Saturday for the week view and the calendar month
// for the month view.
func (v View) Range(date domain.Date) (domain.Date, domain.Date) {
	switch v {
	case ViewWeek:
		start := date.AddDays(-int(date.Weekday()))
		return start, start.AddDays(6)
	case ViewMonth:
		start := date.AddDays(1 - date.Day())
		t := start.Time().AddDate(0, 1, -1)
		return start, domain.DateOf(t)
	default:
		return date, date
	}
}

// FilterForView drops occurrences a view does not render. Status events are
// day-view overlays and are left out of week and month rollups.
func FilterForView(occurrences []domain.Occurrence, view View) []domain.Occurrence {
	if view == ViewDay || view == "" {
		return occurrences
	}

	out := make([]domain.Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		if occ.Event.Type.Normalize() == domain.EventTypeStatus {
			continue
		}
		out = append(out, occ)
	}
	return out
}
