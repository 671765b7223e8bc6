package sqldb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner/internal/config"
	"day-planner/internal/domain"
	"day-planner/internal/errors"
)

func setupTestRepo(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := New(DriverSQLite, ":memory:", Options{})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func eventRecord(id, date string) domain.EventRecord {
	return domain.EventRecord{
		ID:        id,
		Name:      "event " + id,
		Date:      date,
		StartTime: "09:00",
		EndTime:   "10:00",
		Type:      "event",
		Width:     100,
		Recurring: "none",
	}
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	_, err := New("mysql", "whatever", Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestOpen_CreatesDataDirectory(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Database.Dir = filepath.Join(t.TempDir(), "nested", "data")

	repo, err := Open(cfg, nil)
	require.NoError(t, err)
	defer repo.Close()

	assert.FileExists(t, cfg.GetDatabasePath())
	assert.NoError(t, repo.Ping(context.Background()))
	assert.Equal(t, DriverSQLite, repo.Driver())
}

func TestSaveAndLoadEvents(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	second := eventRecord("b", "2024-01-02")
	first := eventRecord("a", "2024-01-01")
	first.RecurringDays = `{"monday":true}`
	first.Recurring = "daily"
	first.RecurringEventID = "r1"
	first.XPosition = 12.5

	saved, err := repo.SaveEvents(ctx, "u1", []domain.EventRecord{second, first})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "u1", saved[0].UserID)

	loaded, err := repo.LoadEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a", loaded[0].ID)
	assert.Equal(t, `{"monday":true}`, loaded[0].RecurringDays)
	assert.Equal(t, "r1", loaded[0].RecurringEventID)
	assert.Equal(t, 12.5, loaded[0].XPosition)

	other, err := repo.LoadEvents(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSaveEvents_UpsertsByID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rec := eventRecord("a", "2024-01-01")
	_, err := repo.SaveEvents(ctx, "u1", []domain.EventRecord{rec})
	require.NoError(t, err)

	rec.StartTime = "14:00"
	rec.EndTime = "15:00"
	_, err = repo.SaveEvents(ctx, "u1", []domain.EventRecord{rec})
	require.NoError(t, err)

	loaded, err := repo.LoadEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "14:00", loaded[0].StartTime)
}

func TestSaveEvents_AssignsMissingIDs(t *testing.T) {
	repo := setupTestRepo(t)

	saved, err := repo.SaveEvents(context.Background(), "u1", []domain.EventRecord{eventRecord("", "2024-01-01")})
	require.NoError(t, err)
	assert.NotEmpty(t, saved[0].ID)
}

func TestSaveEvents_BatchIsAllOrNothing(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.SaveEvents(ctx, "owner", []domain.EventRecord{eventRecord("taken", "2024-01-01")})
	require.NoError(t, err)

	batch := []domain.EventRecord{eventRecord("fresh", "2024-01-02"), eventRecord("taken", "2024-01-03")}
	_, err = repo.SaveEvents(ctx, "intruder", batch)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))

	loaded, err := repo.LoadEvents(ctx, "intruder")
	require.NoError(t, err)
	assert.Empty(t, loaded, "the first record of the failed batch must be rolled back")

	owned, err := repo.LoadEvents(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "2024-01-01", owned[0].Date)
}

func TestDeleteEvents(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.SaveEvents(ctx, "u1", []domain.EventRecord{
		eventRecord("a", "2024-01-01"),
		eventRecord("b", "2024-01-02"),
		eventRecord("c", "2024-01-03"),
	})
	require.NoError(t, err)

	deleted, err := repo.DeleteEvents(ctx, "u1", []string{"a", "c", "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = repo.DeleteEvents(ctx, "u2", []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	loaded, err := repo.LoadEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b", loaded[0].ID)

	deleted, err = repo.DeleteEvents(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRepository_RequiresUser(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.LoadEvents(ctx, "")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))
	_, err = repo.SaveEvents(ctx, "", []domain.EventRecord{eventRecord("a", "2024-01-01")})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))
	_, err = repo.LoadTasks(ctx, "")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))
}

func TestTasks(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	nudge := 15
	rec := domain.TaskRecord{
		Title:         "Write report",
		Date:          "2024-01-01",
		Time:          "14:00",
		Priority:      "high",
		Nudge:         &nudge,
		XPosition:     10,
		EstimatedTime: 45,
	}

	saved, err := repo.SaveTask(ctx, "u1", rec)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := repo.GetTask(ctx, "u1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	require.NotNil(t, got.Nudge)
	assert.Equal(t, 15, *got.Nudge)
	assert.False(t, got.Completed)

	saved.Completed = true
	saved.Nudge = nil
	_, err = repo.SaveTask(ctx, "u1", saved)
	require.NoError(t, err)

	tasks, err := repo.LoadTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.Nil(t, tasks[0].Nudge)

	_, err = repo.GetTask(ctx, "u2", saved.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	saved.Deleted = true
	_, err = repo.SaveTask(ctx, "u1", saved)
	require.NoError(t, err)

	tasks, err = repo.LoadTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	err = repo.DeleteTask(ctx, "u1", saved.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}
