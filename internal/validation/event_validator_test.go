package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner/internal/domain"
)

func validEventRecord() domain.EventRecord {
	return domain.EventRecord{
		ID:        "e1",
		Name:      "Standup",
		Date:      "2024-03-04",
		StartTime: "09:00",
		EndTime:   "09:15",
		Type:      "event",
		XPosition: 0,
		Width:     100,
		Recurring: "none",
	}
}

func TestEventValidator_ValidateEventRecord(t *testing.T) {
	ev := NewEventValidator()

	tests := []struct {
		name           string
		mutate         func(r *domain.EventRecord)
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:   "valid record",
			mutate: func(r *domain.EventRecord) {},
			errorAssertion: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "lane overflow is clamped, not rejected",
			mutate: func(r *domain.EventRecord) { r.XPosition = 80; r.Width = 50 },
			errorAssertion: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "end before start",
			mutate: func(r *domain.EventRecord) { r.EndTime = "08:00" },
			errorAssertion: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Len(t, err.(*ValidationError).GetFieldErrors("endtime"), 1)
			},
		},
		{
			name:   "zero length",
			mutate: func(r *domain.EventRecord) { r.EndTime = r.StartTime },
			errorAssertion: func(t *testing.T, err error) {
				require.Error(t, err)
			},
		},
		{
			name:   "end of day is allowed",
			mutate: func(r *domain.EventRecord) { r.StartTime = "23:00"; r.EndTime = "24:00" },
			errorAssertion: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "unknown recurrence",
			mutate: func(r *domain.EventRecord) { r.Recurring = "yearly" },
			errorAssertion: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Len(t, err.(*ValidationError).GetFieldErrors("recurring"), 1)
			},
		},
		{
			name:   "unknown type",
			mutate: func(r *domain.EventRecord) { r.Type = "meeting" },
			errorAssertion: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Len(t, err.(*ValidationError).GetFieldErrors("type"), 1)
			},
		},
		{
			name:   "bad date skips range check",
			mutate: func(r *domain.EventRecord) { r.Date = "yesterday"; r.StartTime = "nope" },
			errorAssertion: func(t *testing.T, err error) {
				require.Error(t, err)
				ve := err.(*ValidationError)
				assert.Len(t, ve.GetFieldErrors("date"), 1)
				assert.Len(t, ve.GetFieldErrors("starttime"), 1)
				assert.Empty(t, ve.GetFieldErrors("endtime"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validEventRecord()
			tt.mutate(&rec)
			tt.errorAssertion(t, ev.ValidateEventRecord(rec))
		})
	}
}

func TestEventValidator_ValidateEventForCreation(t *testing.T) {
	ev := NewEventValidator()

	daily := validEventRecord()
	daily.Recurring = "daily"
	daily.RecurringDays = `{"monday":false}`

	err := ev.ValidateEventForCreation(daily)
	require.Error(t, err)
	assert.Len(t, err.(*ValidationError).GetFieldErrors("recurringdays"), 1)

	daily.RecurringDays = `{"monday":true,"friday":true}`
	assert.NoError(t, ev.ValidateEventForCreation(daily))

	weekly := validEventRecord()
	weekly.Recurring = "weekly"
	assert.NoError(t, ev.ValidateEventForCreation(weekly))
}

func TestEventValidator_ValidateEventBatch(t *testing.T) {
	ev := NewEventValidator()

	good := validEventRecord()
	bad := validEventRecord()
	bad.ID = "e2"
	bad.Width = 140
	missing := validEventRecord()
	missing.ID = ""

	assert.NoError(t, ev.ValidateEventBatch([]domain.EventRecord{good}))

	err := ev.ValidateEventBatch([]domain.EventRecord{good, bad, missing})
	require.Error(t, err)
	ve := err.(*ValidationError)
	assert.Len(t, ve.GetFieldErrors("e2.width"), 1)
	assert.Len(t, ve.GetFieldErrors("id"), 1)
}
