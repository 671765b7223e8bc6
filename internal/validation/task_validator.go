package validation

import (
	"strings"

	"day-planner/internal/domain"
)

// TaskValidator provides validation for task records
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// ValidateTaskRecord validates a task for creation. Titles are trimmed
// before the length check.
func (tv *TaskValidator) ValidateTaskRecord(rec domain.TaskRecord) error {
	rec.Title = strings.TrimSpace(rec.Title)
	return tv.validator.collect(rec).orNil()
}

// ValidateTaskForUpdate validates a task that must already carry an id.
// Records flagged for deletion only need the id.
func (tv *TaskValidator) ValidateTaskForUpdate(id string, rec domain.TaskRecord) error {
	ve := NewValidationError()

	if strings.TrimSpace(id) == "" {
		ve.AddRequiredError("id")
	}
	if rec.ID != "" && rec.ID != id {
		ve.AddInvalidValueError("id", rec.ID, "does not match the addressed task")
	}

	if !rec.Deleted {
		if err := tv.ValidateTaskRecord(rec); err != nil {
			ve.Merge(err.(*ValidationError))
		}
	}

	return ve.orNil()
}
