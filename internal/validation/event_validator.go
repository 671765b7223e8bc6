package validation

import (
	"strings"

	"day-planner/internal/domain"
)

// EventValidator provides validation for event records arriving at the
// service boundary.
type EventValidator struct {
	validator *Validator
}

// NewEventValidator creates a new event validator
func NewEventValidator() *EventValidator {
	return &EventValidator{validator: NewValidator()}
}

// ValidateEventRecord validates field formats and the time range. Lane
// overflow (xposition + width > 100) is not an error; it is clamped on write.
func (ev *EventValidator) ValidateEventRecord(rec domain.EventRecord) error {
	ve := ev.validator.collect(rec)

	if len(ve.GetFieldErrors("starttime")) == 0 && len(ve.GetFieldErrors("endtime")) == 0 {
		start, _ := domain.ParseClock(rec.StartTime)
		end, _ := domain.ParseClock(rec.EndTime)
		if end <= start {
			ve.AddInvalidRangeError("endtime", rec.EndTime, "must be after starttime")
		}
	}

	return ve.orNil()
}

// ValidateEventForCreation additionally requires at least one weekday on
// new daily events, since a daily series with no days has no members.
func (ev *EventValidator) ValidateEventForCreation(rec domain.EventRecord) error {
	ve := NewValidationError()
	if err := ev.ValidateEventRecord(rec); err != nil {
		ve.Merge(err.(*ValidationError))
	}

	if domain.Recurrence(rec.Recurring).Normalize() == domain.RecurrenceDaily {
		days, err := domain.DecodeWeekdaySet(rec.RecurringDays)
		if err == nil && days.IsEmpty() {
			ve.AddRequiredError("recurringdays")
		}
	}

	return ve.orNil()
}

// ValidateEventBatch validates every record of a batch save, prefixing field
// names with the record id.
func (ev *EventValidator) ValidateEventBatch(records []domain.EventRecord) error {
	ve := NewValidationError()
	for _, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			ve.AddRequiredError("id")
			continue
		}
		err := ev.ValidateEventRecord(rec)
		if err == nil {
			continue
		}
		for _, fe := range err.(*ValidationError).Errors {
			fe.Field = rec.ID + "." + fe.Field
			ve.Errors = append(ve.Errors, fe)
		}
	}
	return ve.orNil()
}
