package services

import (
	"context"

	"day-planner/internal/domain"
	"day-planner/internal/expander"
	"day-planner/internal/placement"
)

// EventService manages a user's calendar events and their occurrences.
type EventService interface {
	List(ctx context.Context, userID string) ([]domain.Event, error)
	Occurrences(ctx context.Context, userID string, date domain.Date, view expander.View) ([]domain.Occurrence, error)
	OccurrencesInRange(ctx context.Context, userID string, from, to domain.Date) ([]domain.Occurrence, error)
	Create(ctx context.Context, userID string, draft domain.EventRecord) ([]domain.Event, error)
	Update(ctx context.Context, userID, eventID string, update placement.Update) ([]domain.Event, error)
	Delete(ctx context.Context, userID, eventID string) ([]string, error)
	SaveBatch(ctx context.Context, userID string, records []domain.EventRecord) ([]domain.Event, error)
	Conflicts(ctx context.Context, userID, eventID string, date domain.Date) ([]domain.Occurrence, error)
	NewDragSession(ctx context.Context, userID string) (*placement.DragSession, error)
}

// TaskService manages a user's tasks.
type TaskService interface {
	List(ctx context.Context, userID string) ([]domain.Task, error)
	Save(ctx context.Context, userID string, record domain.TaskRecord) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, record domain.TaskRecord) (*TaskUpdateResult, error)
}

// TaskUpdateResult carries the outcome of a task update. When the write
// fails Reconciled holds the freshly loaded task list so callers can replace
// their optimistic state.
type TaskUpdateResult struct {
	Task       *domain.Task
	Reconciled []domain.Task
}
