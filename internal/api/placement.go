package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"day-planner/internal/domain"
	"day-planner/internal/errors"
	"day-planner/internal/placement"
)

func (s *Server) computeDrop(c echo.Context) error {
	var req dropRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewInvalidInputError("body", "", "malformed drop")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	visible, err := req.visibleRange(s.engine.Visible())
	if err != nil {
		return err
	}

	slot := s.engine.ComputeDropPosition(
		placement.Point{X: req.Pointer.X, Y: req.Pointer.Y},
		req.Grid.rect(),
		req.GrabOffset,
		req.Duration,
		visible,
	)
	return c.JSON(http.StatusOK, dropResponse{StartTime: slot.Start.String(), EndTime: slot.End.String()})
}

func (s *Server) computeSlot(c echo.Context) error {
	var req slotRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewInvalidInputError("body", "", "malformed slot")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	x := s.engine.ComputeHorizontalSlot(
		placement.Point{X: req.Pointer.X, Y: req.Pointer.Y},
		req.Grid.rect(),
		req.GrabOffset,
		req.Width,
		domain.EventType(req.Type),
	)
	return c.JSON(http.StatusOK, slotResponse{XPosition: x})
}
