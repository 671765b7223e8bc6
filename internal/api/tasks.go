package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"day-planner/internal/domain"
	"day-planner/internal/errors"
)

func (s *Server) listTasks(c echo.Context) error {
	tasks, err := s.tasks.List(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.taskRecords(tasks))
}

// saveTask creates or updates a task; a record flagged deleted removes it.
func (s *Server) saveTask(c echo.Context) error {
	var rec domain.TaskRecord
	if err := c.Bind(&rec); err != nil {
		return errors.NewInvalidInputError("body", "", "malformed task")
	}

	task, err := s.tasks.Save(c.Request().Context(), userID(c), rec)
	if err != nil {
		return err
	}
	if rec.Deleted {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, s.mapper.Task.ToRecord(*task))
}

// updateTask rewrites a task. When the write fails the response carries
// the user's current tasks alongside the error.
func (s *Server) updateTask(c echo.Context) error {
	var rec domain.TaskRecord
	if err := c.Bind(&rec); err != nil {
		return errors.NewInvalidInputError("body", "", "malformed task")
	}

	result, err := s.tasks.Update(c.Request().Context(), userID(c), c.Param("id"), rec)
	if err != nil {
		if result == nil || result.Reconciled == nil {
			return err
		}
		return c.JSON(httpStatus(err), map[string]interface{}{
			"error": errorPayload{Code: errors.GetErrorCode(err), Message: errors.GetUserMessage(err)},
			"tasks": s.taskRecords(result.Reconciled),
		})
	}
	if result.Task == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, s.mapper.Task.ToRecord(*result.Task))
}

func (s *Server) taskRecords(tasks []domain.Task) []domain.TaskRecord {
	out := make([]domain.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, s.mapper.Task.ToRecord(t))
	}
	return out
}

func (s *Server) openNotifications(c echo.Context) error {
	if s.hub == nil {
		return errors.NewNotFoundError("notifications", "disabled")
	}
	if err := s.hub.Open(c.Request().Context(), userID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) drainNotifications(c echo.Context) error {
	if s.hub == nil {
		return errors.NewNotFoundError("notifications", "disabled")
	}
	nudges, err := s.hub.Drain(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nudges)
}

func (s *Server) closeNotifications(c echo.Context) error {
	if s.hub != nil {
		s.hub.Close(userID(c))
	}
	return c.NoContent(http.StatusNoContent)
}
