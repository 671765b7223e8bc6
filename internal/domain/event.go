package domain

// EventType controls how an event is rendered on the grid.
type EventType string

const (
	EventTypeEvent  EventType = "event"
	EventTypeStatus EventType = "status"
	EventTypeFocus  EventType = "focus"
)

// Normalize maps the unset type to the generic event type.
func (t EventType) Normalize() EventType {
	switch t {
	case EventTypeStatus, EventTypeFocus:
		return t
	default:
		return EventTypeEvent
	}
}

// IsRightAnchored reports whether new events of this type start at the
// right edge of the grid.
func (t EventType) IsRightAnchored() bool {
	n := t.Normalize()
	return n == EventTypeStatus || n == EventTypeFocus
}

// Recurrence is the repeat rule of an event record.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Normalize maps unknown and unset values to RecurrenceNone.
func (r Recurrence) Normalize() Recurrence {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return r
	default:
		return RecurrenceNone
	}
}

// DefaultOverlayText is shown by the focus overlay when none is set.
const DefaultOverlayText = "Focus."

// Event is a stored calendar event owned by a single user.
type Event struct {
	ID               string
	Name             string
	Date             Date
	StartTime        Clock
	EndTime          Clock
	Type             EventType
	XPosition        float64
	Width            float64
	BackgroundColor  string
	Color            string
	Recurring        Recurrence
	RecurringDays    WeekdaySet
	RecurringEventID string
	OverlayText      string
}

// IsRecurring reports whether the event repeats.
func (e Event) IsRecurring() bool {
	return e.Recurring.Normalize() != RecurrenceNone
}

// InSeries reports whether the event belongs to a recurring series whose
// members must be updated together.
func (e Event) InSeries() bool {
	return e.IsRecurring() && e.RecurringEventID != ""
}

// Duration returns the event length in minutes, never negative.
func (e Event) Duration() int {
	d := e.EndTime.Minutes() - e.StartTime.Minutes()
	if d < 0 {
		return 0
	}
	return d
}

// Overlay returns the focus overlay text with its default applied.
func (e Event) Overlay() string {
	if e.OverlayText == "" {
		return DefaultOverlayText
	}
	return e.OverlayText
}

// Clone returns a copy that shares no mutable state with e.
func (e Event) Clone() Event {
	if e.RecurringDays != nil {
		days := make(WeekdaySet, len(e.RecurringDays))
		for d, on := range e.RecurringDays {
			days[d] = on
		}
		e.RecurringDays = days
	}
	return e
}

// Equal reports whether o stores exactly the same values as e.
func (e Event) Equal(o Event) bool {
	return e.ID == o.ID &&
		e.Name == o.Name &&
		e.Date.Equal(o.Date) &&
		e.StartTime == o.StartTime &&
		e.EndTime == o.EndTime &&
		e.Type.Normalize() == o.Type.Normalize() &&
		e.XPosition == o.XPosition &&
		e.Width == o.Width &&
		e.BackgroundColor == o.BackgroundColor &&
		e.Color == o.Color &&
		e.Recurring.Normalize() == o.Recurring.Normalize() &&
		e.RecurringDays.Equal(o.RecurringDays) &&
		e.RecurringEventID == o.RecurringEventID &&
		e.OverlayText == o.OverlayText
}

// CloneEvents copies a slice of events.
func CloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

// FindEvent returns the index of the event with the given id, or -1.
func FindEvent(events []Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}
