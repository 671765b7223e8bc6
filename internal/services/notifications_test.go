package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"day-planner/internal/domain"
	"day-planner/internal/errors"
)

type mockTaskLister struct {
	mock.Mock
}

func (m *mockTaskLister) List(ctx context.Context, userID string) ([]domain.Task, error) {
	args := m.Called(ctx, userID)
	tasks, _ := args.Get(0).([]domain.Task)
	return tasks, args.Error(1)
}

func nudgeTask(id, clock string, nudge int) domain.Task {
	task := domain.NewTask("task "+id, domain.MustParseDate("2024-01-01"), domain.MustParseClock(clock))
	task.ID = id
	task.Nudge = &nudge
	return task
}

func atUTC(clock string) time.Time {
	return domain.MustParseDate("2024-01-01").At(domain.MustParseClock(clock), time.UTC)
}

type recorder struct {
	mu     sync.Mutex
	nudges []Nudge
}

func (r *recorder) notify(n Nudge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nudges = append(r.nudges, n)
}

func TestNotificationTracker_Check(t *testing.T) {
	completed := nudgeTask("done", "09:00", 15)
	completed.Completed = true
	noNudge := domain.NewTask("quiet", domain.MustParseDate("2024-01-01"), domain.MustParseClock("09:00"))
	noNudge.ID = "quiet"

	tests := []struct {
		name      string
		tasks     []domain.Task
		now       time.Time
		wantFired []string
	}{
		{
			name:      "fires inside the nudge window",
			tasks:     []domain.Task{nudgeTask("a", "09:00", 15)},
			now:       atUTC("08:50"),
			wantFired: []string{"a"},
		},
		{
			name:      "fires exactly at the nudge time",
			tasks:     []domain.Task{nudgeTask("a", "09:00", 15)},
			now:       atUTC("08:45"),
			wantFired: []string{"a"},
		},
		{
			name:  "does not fire before the window",
			tasks: []domain.Task{nudgeTask("a", "09:00", 15)},
			now:   atUTC("08:44"),
		},
		{
			name:  "does not fire once due",
			tasks: []domain.Task{nudgeTask("a", "09:00", 15)},
			now:   atUTC("09:00"),
		},
		{
			name:  "skips completed tasks and tasks without a nudge",
			tasks: []domain.Task{completed, noNudge},
			now:   atUTC("08:50"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := new(mockTaskLister)
			lister.On("List", mock.Anything, testUser).Return(tt.tasks, nil)
			rec := &recorder{}
			tracker := NewNotificationTracker(testUser, lister, rec.notify, TrackerOptions{Location: time.UTC})

			n, err := tracker.Check(context.Background(), tt.now)
			require.NoError(t, err)

			assert.Equal(t, len(tt.wantFired), n)
			var ids []string
			for _, nudge := range rec.nudges {
				ids = append(ids, nudge.TaskID)
			}
			assert.Equal(t, tt.wantFired, ids)
		})
	}
}

func TestNotificationTracker_FiresOnce(t *testing.T) {
	lister := new(mockTaskLister)
	lister.On("List", mock.Anything, testUser).Return([]domain.Task{nudgeTask("a", "09:00", 15)}, nil)
	rec := &recorder{}
	tracker := NewNotificationTracker(testUser, lister, rec.notify, TrackerOptions{Location: time.UTC})
	ctx := context.Background()

	for _, clock := range []string{"08:46", "08:50", "08:59"} {
		_, err := tracker.Check(ctx, atUTC(clock))
		require.NoError(t, err)
	}

	assert.Len(t, rec.nudges, 1)
	assert.True(t, tracker.Notified("a", atUTC("09:00")))

	tracker.Stop()
	assert.False(t, tracker.Notified("a", atUTC("09:00")))
}

func TestNotificationTracker_CheckError(t *testing.T) {
	lister := new(mockTaskLister)
	lister.On("List", mock.Anything, testUser).Return(nil, errors.NewDatabaseError("query tasks", assert.AnError))
	tracker := NewNotificationTracker(testUser, lister, nil, TrackerOptions{})

	_, err := tracker.Check(context.Background(), time.Now())
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
}

func TestNotificationTracker_StartStop(t *testing.T) {
	lister := new(mockTaskLister)
	lister.On("List", mock.Anything, testUser).Return([]domain.Task{}, nil).Maybe()

	tracker := NewNotificationTracker(testUser, lister, nil, TrackerOptions{Schedule: "@every 1h"})
	require.NoError(t, tracker.Start(context.Background()))

	err := tracker.Start(context.Background())
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))

	tracker.Stop()
	tracker.Stop()

	bad := NewNotificationTracker(testUser, lister, nil, TrackerOptions{Schedule: "not a schedule"})
	err = bad.Start(context.Background())
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestNotificationHub(t *testing.T) {
	lister := new(mockTaskLister)
	lister.On("List", mock.Anything, testUser).Return([]domain.Task{nudgeTask("a", "09:00", 15)}, nil)

	hub := NewNotificationHub(lister, TrackerOptions{
		Location: time.UTC,
		Schedule: "@every 1h",
		Now:      func() time.Time { return atUTC("08:50") },
	})
	defer hub.CloseAll()
	ctx := context.Background()

	_, err := hub.Drain(ctx, testUser)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	require.NoError(t, hub.Open(ctx, testUser))
	require.NoError(t, hub.Open(ctx, testUser))

	nudges, err := hub.Drain(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, nudges, 1)
	assert.Equal(t, "a", nudges[0].TaskID)

	nudges, err = hub.Drain(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, nudges)

	hub.Close(testUser)
	_, err = hub.Drain(ctx, testUser)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}
