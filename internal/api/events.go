package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"day-planner/internal/domain"
	"day-planner/internal/errors"
	"day-planner/internal/expander"
)

const defaultFeedDays = 30

func (s *Server) listEvents(c echo.Context) error {
	events, err := s.events.List(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.eventRecords(events))
}

func (s *Server) createEvent(c echo.Context) error {
	var draft domain.EventRecord
	if err := c.Bind(&draft); err != nil {
		return errors.NewInvalidInputError("body", "", "malformed event")
	}

	created, err := s.events.Create(c.Request().Context(), userID(c), draft)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s.eventRecords(created))
}

func (s *Server) saveEventBatch(c echo.Context) error {
	var records []domain.EventRecord
	if err := c.Bind(&records); err != nil {
		return errors.NewInvalidInputError("body", "", "expected an array of events")
	}

	saved, err := s.events.SaveBatch(c.Request().Context(), userID(c), records)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.eventRecords(saved))
}

func (s *Server) updateEvent(c echo.Context) error {
	var req eventUpdateRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewInvalidInputError("body", "", "malformed update")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	update, err := req.toUpdate()
	if err != nil {
		return err
	}

	changed, err := s.events.Update(c.Request().Context(), userID(c), c.Param("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.eventRecords(changed))
}

func (s *Server) deleteEvent(c echo.Context) error {
	ids, err := s.events.Delete(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]string{"deleted": ids})
}

func (s *Server) eventConflicts(c echo.Context) error {
	date, err := s.dateParam(c, "date", true)
	if err != nil {
		return err
	}

	conflicts, err := s.events.Conflicts(c.Request().Context(), userID(c), c.Param("id"), date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.occurrenceResponses(conflicts))
}

func (s *Server) occurrences(c echo.Context) error {
	date, err := s.dateParam(c, "date", false)
	if err != nil {
		return err
	}
	view, err := expander.ParseView(c.QueryParam("view"))
	if err != nil {
		return errors.NewInvalidInputError("view", c.QueryParam("view"), "must be day, week or month")
	}

	occ, err := s.events.Occurrences(c.Request().Context(), userID(c), date, view)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.occurrenceResponses(occ))
}

func (s *Server) occurrencesInRange(c echo.Context) error {
	from, err := s.dateParam(c, "from", true)
	if err != nil {
		return err
	}
	to, err := s.dateParam(c, "to", true)
	if err != nil {
		return err
	}

	occ, err := s.events.OccurrencesInRange(c.Request().Context(), userID(c), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.occurrenceResponses(occ))
}

func (s *Server) daySummary(c echo.Context) error {
	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		return errors.NewInvalidInputError("date", c.Param("date"), "expected YYYY-MM-DD")
	}
	ctx := c.Request().Context()

	occ, err := s.events.Occurrences(ctx, userID(c), date, expander.ViewDay)
	if err != nil {
		return err
	}
	tasks, err := s.tasks.List(ctx, userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Summarize(date, occ, tasks))
}

func (s *Server) calendarFeed(c echo.Context) error {
	from, err := s.dateParam(c, "from", false)
	if err != nil {
		return err
	}
	to := from.AddDays(defaultFeedDays - 1)
	if c.QueryParam("to") != "" {
		if to, err = s.dateParam(c, "to", true); err != nil {
			return err
		}
	}

	occ, err := s.events.OccurrencesInRange(c.Request().Context(), userID(c), from, to)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/calendar; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return s.ics.Write(c.Response(), occ)
}

// dateParam reads a YYYY-MM-DD query parameter. An absent optional date is
// today in the calendar's timezone.
func (s *Server) dateParam(c echo.Context, name string, required bool) (domain.Date, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		if required {
			return domain.Date{}, errors.NewInvalidInputError(name, "", "is required")
		}
		return domain.DateOf(time.Now().In(s.config.Calendar.Location())), nil
	}

	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, errors.NewInvalidInputError(name, raw, "expected YYYY-MM-DD")
	}
	return d, nil
}
