package services

import (
	"context"
	"strings"

	"day-planner/internal/domain"
	"day-planner/internal/errors"
	"day-planner/internal/logging"
	"day-planner/internal/metrics"
	"day-planner/internal/repository/sqldb"
	"day-planner/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqldb.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	metrics       *metrics.Metrics
	logger        *logging.Logger
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo sqldb.Repository, m *metrics.Metrics, logger *logging.Logger) TaskService {
	logger = logging.OrNop(logger).WithComponent("tasks")
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(logger),
		taskValidator: validation.NewTaskValidator(),
		metrics:       m,
		logger:        logger,
	}
}

// List returns the user's tasks
func (t *taskServiceImpl) List(ctx context.Context, userID string) ([]domain.Task, error) {
	records, err := t.repo.LoadTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return t.mapper.Task.FromRecordSlice(records), nil
}

// Save creates or updates a task. A record flagged deleted is removed.
func (t *taskServiceImpl) Save(ctx context.Context, userID string, record domain.TaskRecord) (*domain.Task, error) {
	if record.Deleted {
		if record.ID == "" {
			return nil, errors.NewInvalidInputError("id", "", "deleting a task requires its id")
		}
	} else {
		if err := t.taskValidator.ValidateTaskRecord(record); err != nil {
			return nil, toAppError(err)
		}
		record = normalizeTask(record)
	}

	saved, err := t.repo.SaveTask(ctx, userID, record)
	if err != nil {
		t.metrics.SaveFailed("task")
		t.logger.WithError(err).Errorw("failed to save task", "user_id", userID, "task_id", record.ID)
		return nil, err
	}

	action := "save_task"
	if record.Deleted {
		action = "delete_task"
	}
	t.logger.LogUserAction(userID, action, map[string]interface{}{"task_id": saved.ID})

	task := t.mapper.Task.FromRecord(saved)
	return &task, nil
}

// Update rewrites an existing task. When the write fails the user's tasks
// are re-fetched so the caller can replace its local state.
func (t *taskServiceImpl) Update(ctx context.Context, userID, taskID string, record domain.TaskRecord) (*TaskUpdateResult, error) {
	if err := t.taskValidator.ValidateTaskForUpdate(taskID, record); err != nil {
		return nil, toAppError(err)
	}
	record.ID = taskID

	if _, err := t.repo.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	task, err := t.Save(ctx, userID, record)
	if err == nil {
		return &TaskUpdateResult{Task: task}, nil
	}

	reconciled, fetchErr := t.List(ctx, userID)
	if fetchErr != nil {
		t.logger.WithError(fetchErr).Warnw("failed to re-fetch tasks after update failure", "user_id", userID)
		return nil, err
	}
	return &TaskUpdateResult{Reconciled: reconciled}, err
}

func normalizeTask(record domain.TaskRecord) domain.TaskRecord {
	record.Title = strings.TrimSpace(record.Title)
	if record.Priority == "" {
		record.Priority = string(domain.PriorityMedium)
	}
	return record
}
