package placement

import (
	"day-planner/internal/domain"
)

// Source tells where an update came from.
type Source int

const (
	SourceForm Source = iota
	SourceDrag
)

func (s Source) String() string {
	if s == SourceDrag {
		return "drag"
	}
	return "form"
}

// Update is a partial change to an event. Nil fields are left unchanged.
type Update struct {
	Name            *string
	Date            *domain.Date
	StartTime       *domain.Clock
	EndTime         *domain.Clock
	Type            *domain.EventType
	XPosition       *float64
	Width           *float64
	BackgroundColor *string
	Color           *string
	OverlayText     *string

	// OriginDate is the date of the occurrence being moved. It defaults to
	// the stored date, which differs for weekly, monthly and daily
	// occurrences away from their anchor.
	OriginDate *domain.Date

	// VisualOnly marks a hover preview that must never be persisted.
	VisualOnly bool
	Source     Source
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return u.Name == nil && u.Date == nil && u.StartTime == nil && u.EndTime == nil &&
		u.Type == nil && u.XPosition == nil && u.Width == nil &&
		u.BackgroundColor == nil && u.Color == nil && u.OverlayText == nil
}

// applyFields copies every non-date field of u onto ev and refits the lane.
func (u Update) applyFields(ev domain.Event) domain.Event {
	if u.Name != nil {
		ev.Name = *u.Name
	}
	if u.StartTime != nil {
		ev.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		ev.EndTime = *u.EndTime
	}
	if u.Type != nil {
		ev.Type = u.Type.Normalize()
	}
	if u.XPosition != nil {
		ev.XPosition = *u.XPosition
	}
	if u.Width != nil {
		ev.Width = *u.Width
	}
	if u.BackgroundColor != nil {
		ev.BackgroundColor = *u.BackgroundColor
	}
	if u.Color != nil {
		ev.Color = *u.Color
	}
	if u.OverlayText != nil {
		ev.OverlayText = *u.OverlayText
	}
	ev.XPosition, ev.Width = FitLane(ev.XPosition, ev.Width)
	return ev
}

// dayDelta is how many days u moves an occurrence of ev.
func (u Update) dayDelta(ev domain.Event) int {
	if u.Date == nil {
		return 0
	}
	origin := ev.Date
	if u.OriginDate != nil && !u.OriginDate.IsZero() {
		origin = *u.OriginDate
	}
	return origin.DaysUntil(*u.Date)
}

// touchesTimes reports whether u sets a start or end time.
func (u Update) touchesTimes() bool {
	return u.StartTime != nil || u.EndTime != nil
}

// ApplyUpdate returns the records that must be persisted after applying u
// to the event with the given id. The input slice is not modified.
//
// A date change moves the stored date by the days between the occurrence's
// origin and its new date. A non-visual update to an event in a recurring
// series is applied to every member: each stored date shifts by that delta
// and every other changed field is set uniformly. Otherwise only the target
// is returned. An unknown id yields nil.
func (e *Engine) ApplyUpdate(eventID string, u Update, all []domain.Event) []domain.Event {
	idx := domain.FindEvent(all, eventID)
	if idx < 0 {
		e.logger.Warnw("update target not found", "event_id", eventID, "source", u.Source.String())
		return nil
	}
	target := all[idx]

	delta := u.dayDelta(target)

	if u.VisualOnly || !target.InSeries() {
		updated := u.applyFields(target.Clone())
		updated.Date = target.Date.AddDays(delta)
		return []domain.Event{updated}
	}

	var out []domain.Event
	for _, member := range all {
		if member.RecurringEventID != target.RecurringEventID {
			continue
		}
		updated := u.applyFields(member.Clone())
		updated.Date = member.Date.AddDays(delta)
		out = append(out, updated)
	}

	e.logger.Debugw("series update",
		"series_id", target.RecurringEventID,
		"members", len(out),
		"day_delta", delta,
		"source", u.Source.String(),
	)
	return out
}
