package placement

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"day-planner/internal/domain"
	apperrors "day-planner/internal/errors"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// CreateEvent turns a drafted event into the records to store.
//
// Daily events are materialized into one record per flagged weekday from the
// anchor date through the series horizon, all sharing a new series id.
// Weekly and monthly events are stored once and expanded on read. Every
// record gets a fresh id.
func (e *Engine) CreateEvent(draft domain.Event) ([]domain.Event, error) {
	ev, err := e.prepareDraft(draft)
	if err != nil {
		return nil, err
	}

	switch ev.Recurring {
	case domain.RecurrenceDaily:
		return e.MaterializeDaily(ev)
	case domain.RecurrenceWeekly, domain.RecurrenceMonthly:
		ev.ID = e.newID()
		ev.RecurringEventID = e.newID()
		ev.RecurringDays = nil
		return []domain.Event{ev}, nil
	default:
		ev.ID = e.newID()
		ev.RecurringEventID = ""
		ev.RecurringDays = nil
		return []domain.Event{ev}, nil
	}
}

// MaterializeDaily expands a daily event into its stored records.
func (e *Engine) MaterializeDaily(ev domain.Event) ([]domain.Event, error) {
	days := ev.RecurringDays.Days()
	if len(days) == 0 {
		return nil, apperrors.NewInvalidInputError("recurringdays", ev.RecurringDays.Encode(), "a daily event needs at least one weekday")
	}

	byDay := make([]rrule.Weekday, 0, len(days))
	for _, d := range days {
		byDay = append(byDay, rruleWeekdays[d])
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   ev.Date.Time(),
		Until:     ev.Date.AddDays(e.horizonDays - 1).Time(),
		Byweekday: byDay,
	})
	if err != nil {
		return nil, apperrors.NewInvalidInputError("recurring", string(ev.Recurring), err.Error())
	}

	dates := rule.All()
	if len(dates) == 0 {
		return nil, apperrors.NewInvalidInputError("recurringdays", ev.RecurringDays.Encode(), "no flagged weekday falls within the series horizon")
	}

	seriesID := e.newID()
	out := make([]domain.Event, 0, len(dates))
	for _, t := range dates {
		member := ev.Clone()
		member.ID = e.newID()
		member.Date = domain.DateOf(t)
		member.RecurringEventID = seriesID
		out = append(out, member)
	}

	e.logger.Debugw("materialized daily series",
		"series_id", seriesID,
		"records", len(out),
		"first", out[0].Date.String(),
		"last", out[len(out)-1].Date.String(),
	)
	return out, nil
}

func (e *Engine) prepareDraft(draft domain.Event) (domain.Event, error) {
	ev := draft.Clone()

	if ev.Date.IsZero() {
		return ev, apperrors.NewInvalidInputError("date", "", "date is required")
	}
	if ev.EndTime <= ev.StartTime {
		return ev, apperrors.NewInvalidInputError("endtime", ev.EndTime.String(), "must be after starttime")
	}

	ev.Name = strings.TrimSpace(ev.Name)
	ev.Type = ev.Type.Normalize()
	ev.Recurring = ev.Recurring.Normalize()

	if ev.Width <= 0 {
		ev.Width = e.defaultWidth
	}
	if ev.XPosition == 0 {
		ev.XPosition = DefaultXPosition(ev.Type, ev.Width)
	}
	ev.XPosition, ev.Width = FitLane(ev.XPosition, ev.Width)

	if ev.Type == domain.EventTypeFocus && ev.OverlayText == "" {
		ev.OverlayText = domain.DefaultOverlayText
	}
	return ev, nil
}
