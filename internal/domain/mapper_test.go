package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventMapper_ToRecord(t *testing.T) {
	mapper := NewEventMapper(nil)
	event := Event{
		ID:               "e1",
		Name:             "Standup",
		Date:             MustParseDate("2024-01-01"),
		StartTime:        MustParseClock("09:00"),
		EndTime:          MustParseClock("09:15"),
		Type:             EventTypeFocus,
		XPosition:        10,
		Width:            40,
		BackgroundColor:  "#fff",
		Color:            "#000",
		Recurring:        RecurrenceDaily,
		RecurringDays:    NewWeekdaySet(time.Monday),
		RecurringEventID: "r1",
		OverlayText:      "Deep work",
	}

	result := mapper.ToRecord(event)

	expected := EventRecord{
		ID:               "e1",
		Name:             "Standup",
		Date:             "2024-01-01",
		StartTime:        "09:00",
		EndTime:          "09:15",
		Type:             "focus",
		XPosition:        10,
		Width:            40,
		BackgroundColor:  "#fff",
		Color:            "#000",
		Recurring:        "daily",
		RecurringDays:    `{"monday":true}`,
		RecurringEventID: "r1",
		OverlayText:      "Deep work",
	}
	assert.Equal(t, expected, result)
}

func TestEventMapper_FromRecord(t *testing.T) {
	mapper := NewEventMapper(nil)
	record := EventRecord{
		ID:            "e1",
		Name:          "Gym",
		Date:          "2024-01-03",
		StartTime:     "18:00",
		EndTime:       "19:30",
		Recurring:     "weekly",
		RecurringDays: "",
		Width:         100,
	}

	result := mapper.FromRecord(record)

	assert.Equal(t, "e1", result.ID)
	assert.Equal(t, MustParseDate("2024-01-03"), result.Date)
	assert.Equal(t, MustParseClock("18:00"), result.StartTime)
	assert.Equal(t, MustParseClock("19:30"), result.EndTime)
	assert.Equal(t, RecurrenceWeekly, result.Recurring)
	assert.True(t, result.RecurringDays.IsEmpty())
	assert.Equal(t, 90, result.Duration())
}

func TestEventMapper_FromRecordDegradesCorruptFields(t *testing.T) {
	mapper := NewEventMapper(nil)
	record := EventRecord{
		ID:            "bad",
		Date:          "2024-01-01",
		StartTime:     "noon",
		EndTime:       "",
		Recurring:     "fortnightly",
		RecurringDays: "{not json",
	}

	result := mapper.FromRecord(record)

	assert.Equal(t, Clock(0), result.StartTime)
	assert.Equal(t, Clock(0), result.EndTime)
	assert.Equal(t, RecurrenceNone, result.Recurring)
	assert.NotNil(t, result.RecurringDays)
	assert.True(t, result.RecurringDays.IsEmpty())
}

func TestEventMapper_Slices(t *testing.T) {
	mapper := NewEventMapper(nil)
	events := []Event{
		{ID: "a", Date: MustParseDate("2024-01-01"), Recurring: RecurrenceNone},
		{ID: "b", Date: MustParseDate("2024-01-02"), Recurring: RecurrenceMonthly},
	}

	records := mapper.ToRecordSlice(events)
	assert.Len(t, records, 2)
	assert.Equal(t, "2024-01-02", records[1].Date)

	back := mapper.FromRecordSlice(records)
	assert.Equal(t, "a", back[0].ID)
	assert.Equal(t, RecurrenceMonthly, back[1].Recurring)

	assert.Empty(t, mapper.ToRecordSlice([]Event{}))
	assert.Empty(t, mapper.FromRecordSlice([]EventRecord{}))
}

func TestTaskMapper(t *testing.T) {
	mapper := NewTaskMapper(nil)
	nudge := 10
	task := Task{
		ID:            "t1",
		Title:         "Pay rent",
		Date:          MustParseDate("2024-02-01"),
		Time:          MustParseClock("08:30"),
		Priority:      PriorityHigh,
		Nudge:         &nudge,
		XPosition:     25,
		EstimatedTime: 15,
	}

	record := mapper.ToRecord(task)
	assert.Equal(t, "2024-02-01", record.Date)
	assert.Equal(t, "08:30", record.Time)
	assert.Equal(t, "high", record.Priority)
	assert.Equal(t, 15, record.EstimatedTime)

	back := mapper.FromRecord(record)
	assert.Equal(t, task, back)
}

func TestNewMapper(t *testing.T) {
	m := NewMapper(nil)
	assert.NotNil(t, m.Event)
	assert.NotNil(t, m.Task)
}
