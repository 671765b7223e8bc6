package placement

import (
	"day-planner/internal/domain"
	apperrors "day-planner/internal/errors"
)

// ActionKind names a calendar mutation.
type ActionKind int

const (
	ActionCreate ActionKind = iota
	ActionUpdate
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Action is one user mutation of the event set.
type Action struct {
	Kind    ActionKind
	EventID string       // update and delete
	Update  Update       // update
	Draft   domain.Event // create
}

// Result is the outcome of reducing an action. Persist holds the records to
// save in one batch; Deleted holds the ids to remove.
type Result struct {
	Events  []domain.Event
	Persist []domain.Event
	Deleted []string
}

// Changed reports whether the result needs a write.
func (r Result) Changed() bool {
	return len(r.Persist) > 0 || len(r.Deleted) > 0
}

// Reduce applies an action to the current events and returns the new set
// alongside what must be written. current is never modified. Visual-only
// updates change the returned set but persist nothing. A persisted update
// that leaves any affected record ending at or before its start is rejected.
func (e *Engine) Reduce(current []domain.Event, action Action) (Result, error) {
	events := domain.CloneEvents(current)

	switch action.Kind {
	case ActionCreate:
		created, err := e.CreateEvent(action.Draft)
		if err != nil {
			return Result{Events: events}, err
		}
		return Result{
			Events:  append(events, created...),
			Persist: created,
		}, nil

	case ActionUpdate:
		changed := e.ApplyUpdate(action.EventID, action.Update, events)
		if !action.Update.VisualOnly && action.Update.touchesTimes() {
			for _, ev := range changed {
				if ev.EndTime <= ev.StartTime {
					return Result{Events: events}, apperrors.NewInvalidInputError("endtime", ev.EndTime.String(),
						"end time must be after start time "+ev.StartTime.String())
				}
			}
		}
		events = replace(events, changed)
		if action.Update.VisualOnly {
			return Result{Events: events}, nil
		}
		return Result{Events: events, Persist: changed}, nil

	case ActionDelete:
		ids := e.DeleteTargets(action.EventID, events)
		return Result{
			Events:  remove(events, ids),
			Deleted: ids,
		}, nil

	default:
		e.logger.Warnw("unknown action", "kind", action.Kind.String())
		return Result{Events: events}, nil
	}
}

// DeleteTargets returns the ids removed by deleting the given event: every
// record sharing its series id, or just the event itself.
func (e *Engine) DeleteTargets(eventID string, all []domain.Event) []string {
	idx := domain.FindEvent(all, eventID)
	if idx < 0 {
		e.logger.Warnw("delete target not found", "event_id", eventID)
		return nil
	}

	seriesID := all[idx].RecurringEventID
	if seriesID == "" {
		return []string{eventID}
	}

	var ids []string
	for _, ev := range all {
		if ev.RecurringEventID == seriesID {
			ids = append(ids, ev.ID)
		}
	}
	return ids
}

func replace(events, changed []domain.Event) []domain.Event {
	for _, c := range changed {
		if i := domain.FindEvent(events, c.ID); i >= 0 {
			events[i] = c
		}
	}
	return events
}

func remove(events []domain.Event, ids []string) []domain.Event {
	if len(ids) == 0 {
		return events
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	out := events[:0]
	for _, ev := range events {
		if !drop[ev.ID] {
			out = append(out, ev)
		}
	}
	return out
}
