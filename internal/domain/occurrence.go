package domain

// Occurrence is one calendar-date projection of a stored event. It is
// derived on demand and never persisted.
type Occurrence struct {
	Event     Event
	Date      Date
	StartTime Clock
	EndTime   Clock
	XPosition float64
	Width     float64
}

// NewOccurrence projects an event onto a date at its authored times and lane.
func NewOccurrence(e Event, date Date) Occurrence {
	return Occurrence{
		Event:     e,
		Date:      date,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		XPosition: e.XPosition,
		Width:     e.Width,
	}
}

// IsAnchor reports whether the occurrence falls on its event's stored date.
func (o Occurrence) IsAnchor() bool {
	return o.Event.Date.Equal(o.Date)
}

// SeriesKey identifies the series an occurrence belongs to, falling back to
// the event id for standalone events.
func (o Occurrence) SeriesKey() string {
	if o.Event.RecurringEventID != "" {
		return o.Event.RecurringEventID
	}
	return o.Event.ID
}
