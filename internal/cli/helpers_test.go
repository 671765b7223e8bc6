package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"day-planner/internal/config"
	"day-planner/internal/domain"
	"day-planner/internal/logging"
	"day-planner/internal/repository/sqldb"
)

const testUser = "user-1"

// Monday 2024-01-08 10:00 UTC.
var fixedNow = time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Database.Filename = ":memory:"
	cfg.Calendar.Timezone = "UTC"
	cfg.Metrics.Enabled = false
	return cfg
}

func freezeTime(t *testing.T) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = orig })
}

// setupApp wires an App over an in-memory database and captures its output.
func setupApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	freezeTime(t)

	repo, err := sqldb.New(sqldb.DriverSQLite, ":memory:", sqldb.Options{})
	require.NoError(t, err)

	app, err := NewApp(testConfig(), repo, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	out := &bytes.Buffer{}
	app.Out = out
	return app, out
}

func seedEvent(t *testing.T, app *App, record domain.EventRecord) domain.Event {
	t.Helper()
	events, err := app.Events.Create(context.Background(), testUser, record)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	return events[len(events)-1]
}

func eventRecord(name, date, start, end string) domain.EventRecord {
	return domain.EventRecord{
		Name:      name,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Type:      "event",
		Width:     50,
		Recurring: "none",
	}
}
