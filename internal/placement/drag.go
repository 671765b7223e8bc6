package placement

import (
	"context"

	"day-planner/internal/domain"
	apperrors "day-planner/internal/errors"
)

// Saver persists a batch of events atomically.
type Saver interface {
	SaveEvents(ctx context.Context, events []domain.Event) error
}

// DropTarget describes where the pointer is during a drag: the date of the
// column under it and the pointer relative to that column's grid.
type DropTarget struct {
	Date    domain.Date
	Pointer Point
	Grid    Rect
	// GrabOffset is where inside the event body the pointer grabbed it.
	GrabOffset Point
}

// Position is where a dragged event sits.
type Position struct {
	Date      domain.Date
	StartTime domain.Clock
	EndTime   domain.Clock
	XPosition float64
}

type drag struct {
	original domain.Event
	origin   Position
}

// DragSession runs drag gestures over one user's loaded events. Hover
// updates are applied locally as visual-only previews; only Drop writes, and
// at most once per gesture. A session handles one gesture at a time and is
// not safe for concurrent use.
type DragSession struct {
	engine *Engine
	saver  Saver
	events []domain.Event
	active *drag
}

// NewDragSession creates a session over a copy of events.
func NewDragSession(engine *Engine, saver Saver, events []domain.Event) *DragSession {
	return &DragSession{
		engine: engine,
		saver:  saver,
		events: domain.CloneEvents(events),
	}
}

// Events returns the session's current view of the events, including any
// hover preview.
func (s *DragSession) Events() []domain.Event {
	return domain.CloneEvents(s.events)
}

// Active reports whether a gesture is in progress.
func (s *DragSession) Active() bool {
	return s.active != nil
}

// BeginDrag starts a gesture on the occurrence of the event shown on
// occurrence. A zero date means the event's stored date.
func (s *DragSession) BeginDrag(eventID string, occurrence domain.Date) error {
	if s.active != nil {
		return apperrors.NewConflictError("drag", "another drag is already in progress")
	}
	idx := domain.FindEvent(s.events, eventID)
	if idx < 0 {
		return apperrors.NewNotFoundError("event", eventID)
	}

	ev := s.events[idx].Clone()
	if occurrence.IsZero() {
		occurrence = ev.Date
	}
	s.active = &drag{
		original: ev,
		origin:   Position{Date: occurrence, StartTime: ev.StartTime, EndTime: ev.EndTime, XPosition: ev.XPosition},
	}
	return nil
}

// Hover computes the candidate position under the pointer and applies it as
// a visual-only update. It never persists.
func (s *DragSession) Hover(target DropTarget) (Position, error) {
	if s.active == nil {
		return Position{}, apperrors.NewConflictError("drag", "no drag in progress")
	}

	s.restore(s.active.original)

	pos := s.positionFor(s.active, target)
	res, err := s.engine.Reduce(s.events, Action{
		Kind:    ActionUpdate,
		EventID: s.active.original.ID,
		Update:  pos.update(s.active.origin.Date, true),
	})
	if err != nil {
		return pos, err
	}
	s.events = res.Events
	return pos, nil
}

// Drop ends the gesture. When the drop position equals the origin nothing is
// written and nil is returned. Otherwise the affected records are saved in
// one call and returned. A failed save leaves the local update in place.
func (s *DragSession) Drop(ctx context.Context, target DropTarget) ([]domain.Event, error) {
	if s.active == nil {
		return nil, apperrors.NewConflictError("drag", "no drag in progress")
	}
	d := s.active
	s.active = nil

	s.restore(d.original)

	pos := s.positionFor(d, target)
	if pos.equal(d.origin) {
		return nil, nil
	}

	res, err := s.engine.Reduce(s.events, Action{
		Kind:    ActionUpdate,
		EventID: d.original.ID,
		Update:  pos.update(d.origin.Date, false),
	})
	if err != nil {
		return nil, err
	}
	s.events = res.Events

	if len(res.Persist) == 0 {
		return nil, nil
	}
	if err := s.saver.SaveEvents(ctx, res.Persist); err != nil {
		s.engine.logger.WithError(err).Warnw("drop save failed", "event_id", d.original.ID, "records", len(res.Persist))
		return res.Persist, err
	}
	return res.Persist, nil
}

// Cancel abandons the gesture and discards any hover preview.
func (s *DragSession) Cancel() {
	if s.active == nil {
		return
	}
	s.restore(s.active.original)
	s.active = nil
}

func (s *DragSession) positionFor(d *drag, target DropTarget) Position {
	ev := d.original
	slot := s.engine.ComputeDropPosition(target.Pointer, target.Grid, target.GrabOffset.Y, ev.Duration(), s.engine.Visible())
	x := s.engine.ComputeHorizontalSlot(target.Pointer, target.Grid, target.GrabOffset.X, ev.Width, ev.Type)

	date := target.Date
	if date.IsZero() {
		date = d.origin.Date
	}
	return Position{Date: date, StartTime: slot.Start, EndTime: slot.End, XPosition: x}
}

func (s *DragSession) restore(original domain.Event) {
	if i := domain.FindEvent(s.events, original.ID); i >= 0 {
		s.events[i] = original.Clone()
	}
}

func (p Position) equal(o Position) bool {
	return p.Date.Equal(o.Date) && p.StartTime == o.StartTime && p.EndTime == o.EndTime && p.XPosition == o.XPosition
}

func (p Position) update(origin domain.Date, visualOnly bool) Update {
	date, start, end, x := p.Date, p.StartTime, p.EndTime, p.XPosition
	return Update{
		OriginDate: &origin,
		Date:       &date,
		StartTime:  &start,
		EndTime:    &end,
		XPosition:  &x,
		VisualOnly: visualOnly,
		Source:     SourceDrag,
	}
}
