// Package placement turns grid manipulations into event positions and
// decides which stored records a change must be persisted to.
package placement

import (
	"math"

	"github.com/google/uuid"

	"day-planner/internal/config"
	"day-planner/internal/domain"
	"day-planner/internal/logging"
)

// Point is a pointer position in grid pixels.
type Point struct {
	X float64
	Y float64
}

// Rect is the on-screen box of the time grid.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// VisibleRange is the window of the day the grid lays events out against.
type VisibleRange struct {
	Start domain.Clock
	End   domain.Clock
}

// Minutes returns the length of the range.
func (r VisibleRange) Minutes() int {
	return r.End.Minutes() - r.Start.Minutes()
}

// Slot is a computed start and end time.
type Slot struct {
	Start domain.Clock
	End   domain.Clock
}

// Engine computes placements. It holds no per-user state and is safe for
// concurrent use.
type Engine struct {
	visible      VisibleRange
	snapMinutes  int
	snapPercent  float64
	defaultWidth float64
	horizonDays  int
	logger       *logging.Logger
	newID        func() string
}

// NewEngine creates an engine from calendar settings.
func NewEngine(cfg config.CalendarConfig, logger *logging.Logger) (*Engine, error) {
	start, end, err := cfg.VisibleRange()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		visible:      VisibleRange{Start: start, End: end},
		snapMinutes:  cfg.SnapMinutes,
		snapPercent:  cfg.SnapPercent,
		defaultWidth: cfg.DefaultWidth,
		horizonDays:  cfg.SeriesHorizonDays,
		logger:       logging.OrNop(logger).WithComponent("placement"),
		newID:        uuid.NewString,
	}
	if e.snapMinutes <= 0 {
		e.snapMinutes = 15
	}
	if e.snapPercent <= 0 {
		e.snapPercent = 5
	}
	if e.defaultWidth <= 0 || e.defaultWidth > 100 {
		e.defaultWidth = 100
	}
	if e.horizonDays <= 0 {
		e.horizonDays = 90
	}
	return e, nil
}

// Visible returns the configured visible range.
func (e *Engine) Visible() VisibleRange {
	return e.visible
}

// ComputeDropPosition maps the pointer's vertical position onto the visible
// range, snaps the start to the nearest step and clamps it so the event
// stays inside the range. An event that would run past 24:00 is pulled back
// to end at 24:00.
func (e *Engine) ComputeDropPosition(pointer Point, grid Rect, grabOffset float64, durationMinutes int, visible VisibleRange) Slot {
	if visible.Minutes() <= 0 {
		visible = e.visible
	}
	if durationMinutes < 0 {
		durationMinutes = 0
	}

	var frac float64
	if grid.Height > 0 {
		frac = (pointer.Y - grid.Top - grabOffset) / grid.Height
	}
	minutes := float64(visible.Start.Minutes()) + frac*float64(visible.Minutes())

	start := int(snap(minutes, float64(e.snapMinutes)))

	latest := visible.End.Minutes() - durationMinutes
	if start > latest {
		start = latest
	}
	if start < visible.Start.Minutes() {
		start = visible.Start.Minutes()
	}
	if start+durationMinutes > domain.MinutesPerDay {
		start = domain.MinutesPerDay - durationMinutes
	}
	if start < 0 {
		start = 0
	}

	return Slot{
		Start: domain.ClampClock(start),
		End:   domain.ClampClock(start + durationMinutes),
	}
}

// ComputeHorizontalSlot maps the pointer's horizontal position to a lane
// offset in percent, snapped to the nearest step and clamped to
// [0, 100-width]. Without a usable grid the type's default offset is used.
func (e *Engine) ComputeHorizontalSlot(pointer Point, grid Rect, grabOffset float64, width float64, eventType domain.EventType) float64 {
	width = clamp(width, 0, 100)
	if grid.Width <= 0 {
		return DefaultXPosition(eventType, width)
	}

	pct := (pointer.X - grid.Left - grabOffset) / grid.Width * 100
	return clamp(snap(pct, e.snapPercent), 0, 100-width)
}

// DefaultXPosition is the lane offset of a newly created event. Status and
// focus events start at the right edge.
func DefaultXPosition(eventType domain.EventType, width float64) float64 {
	if eventType.IsRightAnchored() {
		return math.Max(0, 100-clamp(width, 0, 100))
	}
	return 0
}

// FitLane clamps a lane into the grid. When the right edge would pass 100
// the offset is pulled left, never the width shrunk.
func FitLane(xPosition, width float64) (float64, float64) {
	width = clamp(width, 0, 100)
	xPosition = clamp(xPosition, 0, 100)
	if xPosition+width > 100 {
		xPosition = math.Max(0, 100-width)
	}
	return xPosition, width
}

func snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}
