package sqldb

import (
	"context"

	"day-planner/internal/domain"
)

const taskColumns = `id, user_id, title, date, time, priority, nudge, xposition, estimated_time, completed`

const upsertTaskQuery = `
	INSERT INTO tasks (` + taskColumns + `, updated_at)
	VALUES (:id, :user_id, :title, :date, :time, :priority, :nudge, :xposition, :estimated_time, :completed, CURRENT_TIMESTAMP)
	ON CONFLICT (id) DO UPDATE SET
		title = excluded.title,
		date = excluded.date,
		time = excluded.time,
		priority = excluded.priority,
		nudge = excluded.nudge,
		xposition = excluded.xposition,
		estimated_time = excluded.estimated_time,
		completed = excluded.completed,
		updated_at = CURRENT_TIMESTAMP
	WHERE tasks.user_id = excluded.user_id`

// LoadTasks returns the user's tasks ordered by date and time.
func (r *SQLRepository) LoadTasks(ctx context.Context, userID string) ([]domain.TaskRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = ?
	ORDER BY date ASC, time ASC, id ASC`

	return QueryMultiple[domain.TaskRecord](ctx, r.db, query, "tasks", userID)
}

// GetTask retrieves one task by id.
func (r *SQLRepository) GetTask(ctx context.Context, userID, id string) (*domain.TaskRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = ? AND id = ?`

	return QuerySingle[domain.TaskRecord](ctx, r.db, query, "task", id, userID, id)
}

// SaveTask upserts a task. A record flagged Deleted is removed instead and
// returned unchanged.
func (r *SQLRepository) SaveTask(ctx context.Context, userID string, record domain.TaskRecord) (domain.TaskRecord, error) {
	if err := requireUser(userID); err != nil {
		return record, err
	}
	if record.Deleted {
		return record, r.DeleteTask(ctx, userID, record.ID)
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	if record.ID == "" {
		record.ID = newID()
	}
	record.UserID = userID

	result, err := r.db.NamedExecContext(ctx, upsertTaskQuery, record)
	if err != nil {
		return record, HandleDatabaseError("save task", err)
	}
	if err := ValidateRowsAffected(result, "task", record.ID); err != nil {
		return record, err
	}

	r.logger.Debugw("saved task", "user_id", userID, "task_id", record.ID)
	return record, nil
}

// DeleteTask hard-deletes a task.
func (r *SQLRepository) DeleteTask(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM tasks WHERE user_id = ? AND id = ?`), userID, id)
	if err != nil {
		return HandleDatabaseError("delete task", err)
	}
	return ValidateRowsAffected(result, "task", id)
}
