package services

import (
	"context"

	"day-planner/internal/domain"
	"day-planner/internal/errors"
	"day-planner/internal/expander"
	"day-planner/internal/logging"
	"day-planner/internal/metrics"
	"day-planner/internal/placement"
	"day-planner/internal/repository/sqldb"
	"day-planner/internal/validation"
)

// eventServiceImpl implements the EventService interface
type eventServiceImpl struct {
	repo      sqldb.Repository
	engine    *placement.Engine
	mapper    *domain.Mapper
	validator *validation.EventValidator
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewEventService creates a new EventService instance
func NewEventService(repo sqldb.Repository, engine *placement.Engine, m *metrics.Metrics, logger *logging.Logger) EventService {
	logger = logging.OrNop(logger).WithComponent("events")
	return &eventServiceImpl{
		repo:      repo,
		engine:    engine,
		mapper:    domain.NewMapper(logger),
		validator: validation.NewEventValidator(),
		metrics:   m,
		logger:    logger,
	}
}

// List loads the user's stored events.
func (s *eventServiceImpl) List(ctx context.Context, userID string) ([]domain.Event, error) {
	records, err := s.repo.LoadEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.mapper.Event.FromRecordSlice(records), nil
}

// Occurrences expands the user's events over the dates the view shows
// around date and applies the view's filter.
func (s *eventServiceImpl) Occurrences(ctx context.Context, userID string, date domain.Date, view expander.View) ([]domain.Occurrence, error) {
	from, to := view.Range(date)
	occ, err := s.OccurrencesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return expander.FilterForView(occ, view), nil
}

// OccurrencesInRange expands the user's events over [from, to].
func (s *eventServiceImpl) OccurrencesInRange(ctx context.Context, userID string, from, to domain.Date) ([]domain.Occurrence, error) {
	if to.Before(from) {
		return nil, errors.NewInvalidInputError("to", to.String(), "must not be before from")
	}
	if from.DaysUntil(to) > maxRangeDays {
		return nil, errors.NewInvalidInputError("to", to.String(), "range is limited to one year")
	}

	events, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	occ := expander.ExpandRange(events, from, to)
	s.metrics.OccurrencesExpanded(len(occ))
	return occ, nil
}

const maxRangeDays = 366

// Create validates a drafted event and stores it, materializing daily
// series.
func (s *eventServiceImpl) Create(ctx context.Context, userID string, draft domain.EventRecord) ([]domain.Event, error) {
	if err := s.validator.ValidateEventForCreation(draft); err != nil {
		return nil, toAppError(err)
	}

	res, err := s.engine.Reduce(nil, placement.Action{
		Kind:  placement.ActionCreate,
		Draft: s.mapper.Event.FromRecord(draft),
	})
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, userID, res.Persist); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(userID, "create_event", map[string]interface{}{
		"records":   len(res.Persist),
		"recurring": string(res.Persist[0].Recurring),
		"series_id": res.Persist[0].RecurringEventID,
	})
	return res.Persist, nil
}

// Update applies an edit or a drop. Series members are rewritten together
// in one batch. Visual-only updates and updates that change nothing are
// computed but never written.
func (s *eventServiceImpl) Update(ctx context.Context, userID, eventID string, update placement.Update) ([]domain.Event, error) {
	current, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if domain.FindEvent(current, eventID) < 0 {
		s.logger.Warnw("update target not found", "user_id", userID, "event_id", eventID)
		return nil, errors.NewNotFoundError("event", eventID)
	}

	res, err := s.engine.Reduce(current, placement.Action{
		Kind:    placement.ActionUpdate,
		EventID: eventID,
		Update:  update,
	})
	if err != nil {
		return nil, err
	}

	if update.VisualOnly {
		idx := domain.FindEvent(res.Events, eventID)
		return []domain.Event{res.Events[idx]}, nil
	}

	if unchanged(current, res.Persist) {
		s.logger.Debugw("update changes nothing, skipping save", "user_id", userID, "event_id", eventID)
		return res.Persist, nil
	}

	if err := s.persist(ctx, userID, res.Persist); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(userID, "update_event", map[string]interface{}{
		"event_id": eventID,
		"records":  len(res.Persist),
		"source":   update.Source.String(),
	})
	return res.Persist, nil
}

// Delete removes the event, or its whole series, and returns the removed ids.
func (s *eventServiceImpl) Delete(ctx context.Context, userID, eventID string) ([]string, error) {
	current, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.Reduce(current, placement.Action{Kind: placement.ActionDelete, EventID: eventID})
	if err != nil {
		return nil, err
	}
	if len(res.Deleted) == 0 {
		return nil, errors.NewNotFoundError("event", eventID)
	}

	if _, err := s.repo.DeleteEvents(ctx, userID, res.Deleted); err != nil {
		s.metrics.SaveFailed("event")
		s.logger.WithError(err).Errorw("failed to delete events", "user_id", userID, "event_id", eventID)
		return nil, err
	}

	s.logger.LogUserAction(userID, "delete_event", map[string]interface{}{
		"event_id": eventID,
		"records":  len(res.Deleted),
	})
	return res.Deleted, nil
}

// SaveBatch upserts client-computed records as one atomic batch. Lanes are
// refitted into the grid before writing.
func (s *eventServiceImpl) SaveBatch(ctx context.Context, userID string, records []domain.EventRecord) ([]domain.Event, error) {
	if err := s.validator.ValidateEventBatch(records); err != nil {
		return nil, toAppError(err)
	}

	events := s.mapper.Event.FromRecordSlice(records)
	for i := range events {
		events[i].XPosition, events[i].Width = placement.FitLane(events[i].XPosition, events[i].Width)
	}

	if err := s.persist(ctx, userID, events); err != nil {
		return nil, err
	}
	return events, nil
}

// Conflicts lists the occurrences on date that overlap the event in both
// time and lane.
func (s *eventServiceImpl) Conflicts(ctx context.Context, userID, eventID string, date domain.Date) ([]domain.Occurrence, error) {
	events, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := domain.FindEvent(events, eventID)
	if idx < 0 {
		return nil, errors.NewNotFoundError("event", eventID)
	}

	candidate := domain.NewOccurrence(events[idx], date)
	return placement.FindConflicts(expander.Expand(events, date), candidate), nil
}

// NewDragSession opens a drag session over the user's current events whose
// drops are persisted through this service.
func (s *eventServiceImpl) NewDragSession(ctx context.Context, userID string) (*placement.DragSession, error) {
	events, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return placement.NewDragSession(s.engine, userSaver{service: s, userID: userID}, events), nil
}

// persist writes one batch. Failures are counted and logged; nothing is
// rolled back on the caller's side.
func (s *eventServiceImpl) persist(ctx context.Context, userID string, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	if _, err := s.repo.SaveEvents(ctx, userID, s.mapper.Event.ToRecordSlice(events)); err != nil {
		s.metrics.SaveFailed("event")
		s.logger.WithError(err).Errorw("failed to save events", "user_id", userID, "records", len(events))
		return err
	}

	s.metrics.EventsSaved(len(events))
	return nil
}

// userSaver binds a user to the service's persistence for drag sessions.
type userSaver struct {
	service *eventServiceImpl
	userID  string
}

func (u userSaver) SaveEvents(ctx context.Context, events []domain.Event) error {
	return u.service.persist(ctx, u.userID, events)
}

func toAppError(err error) error {
	if ve, ok := err.(*validation.ValidationError); ok {
		return ve.ToAppError()
	}
	return err
}

// unchanged reports whether every record in next is stored as-is in current.
func unchanged(current, next []domain.Event) bool {
	for _, ev := range next {
		i := domain.FindEvent(current, ev.ID)
		if i < 0 || !current[i].Equal(ev) {
			return false
		}
	}
	return true
}
