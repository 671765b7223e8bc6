package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"day-planner/internal/config"
	"day-planner/internal/domain"
	"day-planner/internal/logging"
	"day-planner/internal/placement"
	"day-planner/internal/repository/sqldb"
)

const testUser = "user-1"

func setupRepository(t *testing.T) *sqldb.SQLRepository {
	t.Helper()
	repo, err := sqldb.New(sqldb.DriverSQLite, ":memory:", sqldb.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func setupEventService(t *testing.T, repo sqldb.Repository) EventService {
	t.Helper()
	engine, err := placement.NewEngine(config.NewConfig().Calendar, logging.Nop())
	require.NoError(t, err)
	return NewEventService(repo, engine, nil, logging.Nop())
}

func eventRecord(id, date, start, end string) domain.EventRecord {
	return domain.EventRecord{
		ID:        id,
		Name:      "event " + id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Type:      "event",
		Width:     50,
		Recurring: "none",
	}
}

// failingSaveRepo fails every write while reads go to the wrapped repository.
type failingSaveRepo struct {
	sqldb.Repository
	err error
}

func (f failingSaveRepo) SaveEvents(ctx context.Context, userID string, records []domain.EventRecord) ([]domain.EventRecord, error) {
	return nil, f.err
}

func (f failingSaveRepo) SaveTask(ctx context.Context, userID string, record domain.TaskRecord) (domain.TaskRecord, error) {
	return record, f.err
}

func ptr[T any](v T) *T { return &v }
