// Package expander projects stored event records onto calendar dates.
//
// Expansion is pure: records are never modified and the same input always
// yields the same occurrences.
package expander

import (
	"sort"

	"day-planner/internal/domain"
)

// Includes reports whether the event has an occurrence on target.
//
// The anchor date always matches. Otherwise daily events match the weekdays
// flagged in RecurringDays, weekly events match the anchor's weekday and
// monthly events match the anchor's day of month. Months without that day
// produce nothing. An event without a valid anchor date never matches.
func Includes(e domain.Event, target domain.Date) bool {
	if e.Date.IsZero() {
		return false
	}
	if e.Date.Equal(target) {
		return true
	}

	switch e.Recurring.Normalize() {
	case domain.RecurrenceDaily:
		return e.RecurringDays.Has(target.Weekday())
	case domain.RecurrenceWeekly:
		return target.Weekday() == e.Date.Weekday()
	case domain.RecurrenceMonthly:
		return target.Day() == e.Date.Day()
	default:
		return false
	}
}

// Expand returns the occurrences visible on target, sorted by start time
// then name.
//
// A materialized daily series stores one record per day, each carrying the
// same weekday rule, so several records of one series can match a date. Only
// one occurrence per series and date is kept and the record anchored on that
// date wins. Daily records that belong to a series only match between the
// series' first and last stored dates; a standalone daily record repeats
// without bound.
func Expand(events []domain.Event, target domain.Date) []domain.Occurrence {
	return expand(events, seriesSpans(events), target)
}

// ExpandRange expands every date in [from, to]. An inverted range yields
// nothing.
func ExpandRange(events []domain.Event, from, to domain.Date) []domain.Occurrence {
	spans := seriesSpans(events)

	var out []domain.Occurrence
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, expand(events, spans, d)...)
	}
	return out
}

// span is the first and last stored date of a materialized daily series.
type span struct {
	first, last domain.Date
}

func (s span) contains(d domain.Date) bool {
	return !d.Before(s.first) && !d.After(s.last)
}

func seriesSpans(events []domain.Event) map[string]span {
	spans := make(map[string]span)
	for _, e := range events {
		if !materialized(e) {
			continue
		}
		sp, ok := spans[e.RecurringEventID]
		if !ok {
			spans[e.RecurringEventID] = span{first: e.Date, last: e.Date}
			continue
		}
		if e.Date.Before(sp.first) {
			sp.first = e.Date
		}
		if e.Date.After(sp.last) {
			sp.last = e.Date
		}
		spans[e.RecurringEventID] = sp
	}
	return spans
}

func materialized(e domain.Event) bool {
	return e.RecurringEventID != "" && !e.Date.IsZero() &&
		e.Recurring.Normalize() == domain.RecurrenceDaily
}

func expand(events []domain.Event, spans map[string]span, target domain.Date) []domain.Occurrence {
	var out []domain.Occurrence
	seen := make(map[string]int)

	for _, e := range events {
		if !Includes(e, target) {
			continue
		}
		if materialized(e) && !spans[e.RecurringEventID].contains(target) {
			continue
		}

		occ := domain.NewOccurrence(e, target)
		key := occ.SeriesKey()
		if e.RecurringEventID == "" {
			key = "id:" + e.ID
		}

		if i, ok := seen[key]; ok {
			if occ.IsAnchor() && !out[i].IsAnchor() {
				out[i] = occ
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, occ)
	}

	Sort(out)
	return out
}

// Sort orders occurrences by date, start time, then name.
func Sort(occurrences []domain.Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Event.Name < b.Event.Name
	})
}
