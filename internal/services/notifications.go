package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"day-planner/internal/domain"
	"day-planner/internal/errors"
	"day-planner/internal/logging"
	"day-planner/internal/metrics"
)

// Nudge is one fired task reminder.
type Nudge struct {
	TaskID  string    `json:"task_id"`
	Title   string    `json:"title"`
	DueAt   time.Time `json:"due_at"`
	FiredAt time.Time `json:"fired_at"`
}

// Notifier receives nudges as they fire.
type Notifier func(Nudge)

// TaskLister is the part of TaskService the tracker reads from.
type TaskLister interface {
	List(ctx context.Context, userID string) ([]domain.Task, error)
}

// TrackerOptions configures a NotificationTracker.
type TrackerOptions struct {
	Location *time.Location
	Schedule string // cron spec, defaults to "@every 1m"
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// NotificationTracker fires task nudges for one user session. It remembers
// which nudges it already fired so each task is nudged once per due time.
type NotificationTracker struct {
	userID string
	tasks  TaskLister
	notify Notifier
	opts   TrackerOptions
	logger *logging.Logger

	mu       sync.Mutex
	notified map[string]bool
	cron     *cron.Cron
}

// NewNotificationTracker creates a tracker for a session. It does nothing
// until Start or Check is called.
func NewNotificationTracker(userID string, tasks TaskLister, notify Notifier, opts TrackerOptions) *NotificationTracker {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Schedule == "" {
		opts.Schedule = "@every 1m"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &NotificationTracker{
		userID:   userID,
		tasks:    tasks,
		notify:   notify,
		opts:     opts,
		logger:   logging.OrNop(opts.Logger).WithComponent("notifications").WithUserID(userID),
		notified: make(map[string]bool),
	}
}

// Start schedules periodic checks. Calling Start on a running tracker is an
// error.
func (t *NotificationTracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cron != nil {
		return errors.NewConflictError("notification tracker", "already started")
	}

	c := cron.New(cron.WithLocation(t.opts.Location), cron.WithLogger(cronLogger{t.logger}))
	_, err := c.AddFunc(t.opts.Schedule, func() {
		if _, err := t.Check(ctx, t.opts.Now()); err != nil {
			t.logger.WithError(err).Warnw("nudge check failed")
		}
	})
	if err != nil {
		return errors.NewInvalidInputError("schedule", t.opts.Schedule, err.Error())
	}

	c.Start()
	t.cron = c
	t.logger.Debugw("notification tracker started", "schedule", t.opts.Schedule)
	return nil
}

// Check fires every nudge that is due at now and has not fired yet. A nudge
// is pending while due-nudge <= now < due. It returns how many fired.
func (t *NotificationTracker) Check(ctx context.Context, now time.Time) (int, error) {
	tasks, err := t.tasks.List(ctx, t.userID)
	if err != nil {
		return 0, err
	}

	var fired []Nudge
	t.mu.Lock()
	for _, task := range tasks {
		if task.Completed || task.Deleted || task.Date.IsZero() {
			continue
		}
		nudgeAt, ok := task.NudgeAt(t.opts.Location)
		if !ok {
			continue
		}
		due := task.DueAt(t.opts.Location)
		if now.Before(nudgeAt) || !now.Before(due) {
			continue
		}

		key := task.ID + "@" + due.Format(time.RFC3339)
		if t.notified[key] {
			continue
		}
		t.notified[key] = true
		fired = append(fired, Nudge{TaskID: task.ID, Title: task.Title, DueAt: due, FiredAt: now})
	}
	t.mu.Unlock()

	for _, n := range fired {
		t.logger.Infow("task nudge", "task_id", n.TaskID, "due_at", n.DueAt)
		t.opts.Metrics.NudgeSent()
		if t.notify != nil {
			t.notify(n)
		}
	}
	return len(fired), nil
}

// Notified reports whether a nudge for the task at the given due time has
// fired.
func (t *NotificationTracker) Notified(taskID string, due time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notified[taskID+"@"+due.Format(time.RFC3339)]
}

// Stop halts scheduled checks and waits for a running check to finish. The
// tracker forgets what it fired.
func (t *NotificationTracker) Stop() {
	t.mu.Lock()
	c := t.cron
	t.cron = nil
	t.notified = make(map[string]bool)
	t.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		t.logger.Debugw("notification tracker stopped")
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithError(err).Errorw(msg, keysAndValues...)
}

// NotificationHub owns one tracker per open user session and buffers the
// nudges they fire until the session drains them.
type NotificationHub struct {
	tasks TaskLister
	opts  TrackerOptions

	mu       sync.Mutex
	sessions map[string]*hubSession
}

type hubSession struct {
	tracker *NotificationTracker
	mu      sync.Mutex
	inbox   []Nudge
}

// NewNotificationHub creates an empty hub.
func NewNotificationHub(tasks TaskLister, opts TrackerOptions) *NotificationHub {
	return &NotificationHub{
		tasks:    tasks,
		opts:     opts,
		sessions: make(map[string]*hubSession),
	}
}

// Open starts a session for the user if none is running. The session
// outlives ctx; it ends on Close.
func (h *NotificationHub) Open(ctx context.Context, userID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[userID]; ok {
		return nil
	}

	s := &hubSession{}
	s.tracker = NewNotificationTracker(userID, h.tasks, func(n Nudge) {
		s.mu.Lock()
		s.inbox = append(s.inbox, n)
		s.mu.Unlock()
	}, h.opts)

	if err := s.tracker.Start(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	h.sessions[userID] = s
	return nil
}

// Drain runs a check for the user's session and returns every buffered nudge.
func (h *NotificationHub) Drain(ctx context.Context, userID string) ([]Nudge, error) {
	h.mu.Lock()
	s, ok := h.sessions[userID]
	h.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFoundError("notification session", userID)
	}

	if _, err := s.tracker.Check(ctx, s.tracker.opts.Now()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.inbox
	s.inbox = nil
	if out == nil {
		out = []Nudge{}
	}
	return out, nil
}

// Close stops the user's session.
func (h *NotificationHub) Close(userID string) {
	h.mu.Lock()
	s, ok := h.sessions[userID]
	delete(h.sessions, userID)
	h.mu.Unlock()

	if ok {
		s.tracker.Stop()
	}
}

// CloseAll stops every session.
func (h *NotificationHub) CloseAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*hubSession)
	h.mu.Unlock()

	for _, s := range sessions {
		s.tracker.Stop()
	}
}
