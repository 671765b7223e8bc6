package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner/internal/domain"
)

func TestEngine_ApplyUpdate_SeriesMoveShiftsEveryMember(t *testing.T) {
	engine := newTestEngine(t)
	series := testSeries("r1", "2024-01-01", "2024-01-02", "2024-01-03")
	before := domain.CloneEvents(series)

	for _, source := range []Source{SourceDrag, SourceForm} {
		t.Run(source.String(), func(t *testing.T) {
			changed := engine.ApplyUpdate("r1-1", Update{
				Date:      ptr(domain.MustParseDate("2024-01-04")),
				StartTime: ptr(domain.MustParseClock("14:00")),
				EndTime:   ptr(domain.MustParseClock("15:00")),
				Source:    source,
			}, series)

			require.Len(t, changed, 3)
			for i, ev := range changed {
				assert.Equal(t, before[i].ID, ev.ID)
				assert.Equal(t, 2, before[i].Date.DaysUntil(ev.Date))
				assert.Equal(t, "14:00", ev.StartTime.String())
				assert.Equal(t, "15:00", ev.EndTime.String())
				assert.Equal(t, "r1", ev.RecurringEventID)
			}
			assert.Equal(t, before, series, "input must not be modified")
		})
	}
}

func TestEngine_ApplyUpdate_SeriesFieldsAppliedUniformly(t *testing.T) {
	engine := newTestEngine(t)
	series := testSeries("r1", "2024-01-01", "2024-01-02")

	changed := engine.ApplyUpdate("r1-0", Update{Name: ptr("Gym"), Color: ptr("#fff")}, series)
	require.Len(t, changed, 2)
	for i, ev := range changed {
		assert.Equal(t, "Gym", ev.Name)
		assert.Equal(t, "#fff", ev.Color)
		assert.Equal(t, series[i].Date, ev.Date)
	}
}

func TestEngine_ApplyUpdate_SingleRecord(t *testing.T) {
	engine := newTestEngine(t)
	series := testSeries("r1", "2024-01-01", "2024-01-02")
	standalone := testEvent("solo", "2024-01-01", "09:00", "10:00")
	all := append(series, standalone)

	tests := []struct {
		name    string
		eventID string
		update  Update
	}{
		{
			name:    "visual-only update on a series member",
			eventID: "r1-0",
			update:  Update{Date: ptr(domain.MustParseDate("2024-01-05")), VisualOnly: true, Source: SourceDrag},
		},
		{
			name:    "non-recurring event",
			eventID: "solo",
			update:  Update{Date: ptr(domain.MustParseDate("2024-01-05")), Source: SourceDrag},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := engine.ApplyUpdate(tt.eventID, tt.update, all)
			require.Len(t, changed, 1)
			assert.Equal(t, tt.eventID, changed[0].ID)
			assert.Equal(t, "2024-01-05", changed[0].Date.String())
		})
	}
}

func TestEngine_ApplyUpdate_SeriesIDWithoutRecurrence(t *testing.T) {
	engine := newTestEngine(t)
	series := testSeries("r1", "2024-01-01", "2024-01-02")
	series[0].Recurring = domain.RecurrenceNone

	changed := engine.ApplyUpdate("r1-0", Update{Name: ptr("Detached")}, series)
	require.Len(t, changed, 1)
}

func TestEngine_ApplyUpdate_WidthPullsLaneLeft(t *testing.T) {
	engine := newTestEngine(t)
	ev := testEvent("a", "2024-01-01", "09:00", "10:00")
	ev.XPosition = 80
	ev.Width = 20

	changed := engine.ApplyUpdate("a", Update{Width: ptr(50.0)}, []domain.Event{ev})
	require.Len(t, changed, 1)
	assert.Equal(t, 50.0, changed[0].XPosition)
	assert.Equal(t, 50.0, changed[0].Width)

	changed = engine.ApplyUpdate("a", Update{Width: ptr(140.0)}, []domain.Event{ev})
	require.Len(t, changed, 1)
	assert.Equal(t, 0.0, changed[0].XPosition)
	assert.Equal(t, 100.0, changed[0].Width)
}

func TestEngine_ApplyUpdate_MissingTarget(t *testing.T) {
	engine := newTestEngine(t)
	changed := engine.ApplyUpdate("gone", Update{Name: ptr("x")}, []domain.Event{testEvent("a", "2024-01-01", "09:00", "10:00")})
	assert.Nil(t, changed)
}

func TestUpdate_IsEmpty(t *testing.T) {
	assert.True(t, Update{}.IsEmpty())
	assert.True(t, Update{VisualOnly: true, Source: SourceDrag}.IsEmpty())
	assert.False(t, Update{Width: ptr(10.0)}.IsEmpty())
}
