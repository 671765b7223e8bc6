package domain

import (
	"day-planner/internal/logging"
)

// EventMapper handles conversion between domain Events and EventRecords.
// Conversion from records is lenient: corrupt fields degrade to safe
// defaults and are logged.
type EventMapper struct {
	logger *logging.Logger
}

// NewEventMapper creates a new EventMapper instance.
func NewEventMapper(logger *logging.Logger) *EventMapper {
	return &EventMapper{logger: logging.OrNop(logger)}
}

// ToRecord converts a domain Event to its boundary record.
func (m *EventMapper) ToRecord(e Event) EventRecord {
	return EventRecord{
		ID:               e.ID,
		Name:             e.Name,
		Date:             e.Date.String(),
		StartTime:        e.StartTime.String(),
		EndTime:          e.EndTime.String(),
		Type:             string(e.Type),
		XPosition:        e.XPosition,
		Width:            e.Width,
		BackgroundColor:  e.BackgroundColor,
		Color:            e.Color,
		Recurring:        string(e.Recurring.Normalize()),
		RecurringDays:    e.RecurringDays.Encode(),
		RecurringEventID: e.RecurringEventID,
		OverlayText:      e.OverlayText,
	}
}

// FromRecord converts a boundary record to a domain Event.
func (m *EventMapper) FromRecord(r EventRecord) Event {
	log := m.logger.WithFields("event_id", r.ID)

	date, err := ParseDate(r.Date)
	if err != nil {
		log.Warnw("unparseable event date", "date", r.Date, "error", err)
	}

	start, ok := ParseClockOrZero(r.StartTime)
	if !ok {
		log.Warnw("unparseable start time, using 00:00", "starttime", r.StartTime)
	}
	end, ok := ParseClockOrZero(r.EndTime)
	if !ok {
		log.Warnw("unparseable end time, using 00:00", "endtime", r.EndTime)
	}

	days, err := DecodeWeekdaySet(r.RecurringDays)
	if err != nil {
		log.Warnw("malformed recurring days, treating as no active days", "error", err)
	}

	return Event{
		ID:               r.ID,
		Name:             r.Name,
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		Type:             EventType(r.Type),
		XPosition:        r.XPosition,
		Width:            r.Width,
		BackgroundColor:  r.BackgroundColor,
		Color:            r.Color,
		Recurring:        Recurrence(r.Recurring).Normalize(),
		RecurringDays:    days,
		RecurringEventID: r.RecurringEventID,
		OverlayText:      r.OverlayText,
	}
}

// ToRecordSlice converts a slice of domain Events to records.
func (m *EventMapper) ToRecordSlice(events []Event) []EventRecord {
	records := make([]EventRecord, len(events))
	for i, e := range events {
		records[i] = m.ToRecord(e)
	}
	return records
}

// FromRecordSlice converts a slice of records to domain Events.
func (m *EventMapper) FromRecordSlice(records []EventRecord) []Event {
	events := make([]Event, len(records))
	for i, r := range records {
		events[i] = m.FromRecord(r)
	}
	return events
}

// TaskMapper handles conversion between domain Tasks and TaskRecords.
type TaskMapper struct {
	logger *logging.Logger
}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper(logger *logging.Logger) *TaskMapper {
	return &TaskMapper{logger: logging.OrNop(logger)}
}

// ToRecord converts a domain Task to its boundary record.
func (m *TaskMapper) ToRecord(t Task) TaskRecord {
	return TaskRecord{
		ID:            t.ID,
		Title:         t.Title,
		Date:          t.Date.String(),
		Time:          t.Time.String(),
		Priority:      string(t.Priority),
		Nudge:         t.Nudge,
		XPosition:     t.XPosition,
		EstimatedTime: t.EstimatedTime,
		Completed:     t.Completed,
		Deleted:       t.Deleted,
	}
}

// FromRecord converts a boundary record to a domain Task.
func (m *TaskMapper) FromRecord(r TaskRecord) Task {
	date, err := ParseDate(r.Date)
	if err != nil {
		m.logger.Warnw("unparseable task date", "task_id", r.ID, "date", r.Date, "error", err)
	}
	at, ok := ParseClockOrZero(r.Time)
	if !ok {
		m.logger.Warnw("unparseable task time, using 00:00", "task_id", r.ID, "time", r.Time)
	}

	return Task{
		ID:            r.ID,
		Title:         r.Title,
		Date:          date,
		Time:          at,
		Priority:      Priority(r.Priority),
		Nudge:         r.Nudge,
		XPosition:     r.XPosition,
		EstimatedTime: r.EstimatedTime,
		Completed:     r.Completed,
		Deleted:       r.Deleted,
	}
}

// FromRecordSlice converts a slice of records to domain Tasks.
func (m *TaskMapper) FromRecordSlice(records []TaskRecord) []Task {
	tasks := make([]Task, len(records))
	for i, r := range records {
		tasks[i] = m.FromRecord(r)
	}
	return tasks
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Event *EventMapper
	Task  *TaskMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper(logger *logging.Logger) *Mapper {
	return &Mapper{
		Event: NewEventMapper(logger),
		Task:  NewTaskMapper(logger),
	}
}
