package placement

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"day-planner/internal/config"
	"day-planner/internal/domain"
	"day-planner/internal/logging"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(config.NewConfig().Calendar, logging.Nop())
	require.NoError(t, err)

	n := 0
	engine.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return engine
}

func testEvent(id, date, start, end string) domain.Event {
	return domain.Event{
		ID:        id,
		Name:      "event " + id,
		Date:      domain.MustParseDate(date),
		StartTime: domain.MustParseClock(start),
		EndTime:   domain.MustParseClock(end),
		Type:      domain.EventTypeEvent,
		Width:     50,
		Recurring: domain.RecurrenceNone,
	}
}

func testSeries(seriesID string, dates ...string) []domain.Event {
	var out []domain.Event
	for i, date := range dates {
		e := testEvent(fmt.Sprintf("%s-%d", seriesID, i), date, "09:00", "10:00")
		e.Recurring = domain.RecurrenceDaily
		e.RecurringEventID = seriesID
		out = append(out, e)
	}
	return out
}

// grid is a 16 hour visible range drawn at one pixel per minute, 200px wide.
var grid = Rect{Left: 0, Top: 0, Width: 200, Height: 960}

func ptr[T any](v T) *T {
	return &v
}
