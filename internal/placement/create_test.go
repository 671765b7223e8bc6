package placement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner/internal/domain"
	apperrors "day-planner/internal/errors"
)

func TestEngine_CreateEvent_DailyMaterializesHorizon(t *testing.T) {
	engine := newTestEngine(t)

	draft := testEvent("", "2024-01-01", "09:00", "10:00")
	draft.Recurring = domain.RecurrenceDaily
	draft.RecurringDays = domain.NewWeekdaySet(time.Monday, time.Wednesday)

	records, err := engine.CreateEvent(draft)
	require.NoError(t, err)
	require.Len(t, records, 26)

	seriesID := records[0].RecurringEventID
	require.NotEmpty(t, seriesID)

	ids := make(map[string]bool)
	for _, r := range records {
		assert.Equal(t, seriesID, r.RecurringEventID)
		assert.NotEqual(t, seriesID, r.ID)
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true

		wd := r.Date.Weekday()
		assert.True(t, wd == time.Monday || wd == time.Wednesday, r.Date.String())
		assert.Equal(t, "09:00", r.StartTime.String())
		assert.Equal(t, domain.RecurrenceDaily, r.Recurring)
	}

	assert.Equal(t, "2024-01-01", records[0].Date.String())
	assert.Equal(t, "2024-03-27", records[len(records)-1].Date.String())
	assert.Less(t, draft.Date.DaysUntil(records[len(records)-1].Date), 90)
}

func TestEngine_CreateEvent_DailySkipsUnflaggedAnchor(t *testing.T) {
	engine := newTestEngine(t)

	draft := testEvent("", "2024-01-02", "09:00", "10:00")
	draft.Recurring = domain.RecurrenceDaily
	draft.RecurringDays = domain.NewWeekdaySet(time.Friday)

	records, err := engine.CreateEvent(draft)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", records[0].Date.String())
}

func TestEngine_CreateEvent_DailyWithoutWeekdays(t *testing.T) {
	engine := newTestEngine(t)

	draft := testEvent("", "2024-01-01", "09:00", "10:00")
	draft.Recurring = domain.RecurrenceDaily

	_, err := engine.CreateEvent(draft)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestEngine_CreateEvent_SingleRecord(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name       string
		recurrence domain.Recurrence
		wantSeries bool
	}{
		{"none", domain.RecurrenceNone, false},
		{"unset", "", false},
		{"weekly", domain.RecurrenceWeekly, true},
		{"monthly", domain.RecurrenceMonthly, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := testEvent("client-id", "2024-01-01", "09:00", "10:00")
			draft.Recurring = tt.recurrence
			draft.RecurringDays = domain.NewWeekdaySet(time.Monday)

			records, err := engine.CreateEvent(draft)
			require.NoError(t, err)
			require.Len(t, records, 1)

			assert.NotEqual(t, "client-id", records[0].ID)
			assert.Equal(t, tt.wantSeries, records[0].RecurringEventID != "")
			assert.Nil(t, records[0].RecurringDays)
			assert.Equal(t, tt.recurrence.Normalize(), records[0].Recurring)
		})
	}
}

func TestEngine_CreateEvent_Defaults(t *testing.T) {
	engine := newTestEngine(t)

	status := testEvent("", "2024-01-01", "09:00", "10:00")
	status.Type = domain.EventTypeStatus
	status.Width = 30
	records, err := engine.CreateEvent(status)
	require.NoError(t, err)
	assert.Equal(t, 70.0, records[0].XPosition)

	focus := testEvent("", "2024-01-01", "09:00", "10:00")
	focus.Type = domain.EventTypeFocus
	focus.Width = 0
	records, err = engine.CreateEvent(focus)
	require.NoError(t, err)
	assert.Equal(t, 100.0, records[0].Width)
	assert.Equal(t, 0.0, records[0].XPosition)
	assert.Equal(t, domain.DefaultOverlayText, records[0].OverlayText)

	plain := testEvent("", "2024-01-01", "09:00", "10:00")
	plain.Type = ""
	plain.XPosition = 90
	plain.Width = 40
	records, err = engine.CreateEvent(plain)
	require.NoError(t, err)
	assert.Equal(t, domain.EventTypeEvent, records[0].Type)
	assert.Equal(t, 60.0, records[0].XPosition)
}

func TestEngine_CreateEvent_Invalid(t *testing.T) {
	engine := newTestEngine(t)

	backwards := testEvent("", "2024-01-01", "10:00", "09:00")
	_, err := engine.CreateEvent(backwards)
	assert.Error(t, err)

	undated := testEvent("", "2024-01-01", "09:00", "10:00")
	undated.Date = domain.Date{}
	_, err = engine.CreateEvent(undated)
	assert.Error(t, err)
}
