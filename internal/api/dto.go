package api

import (
	"day-planner/internal/domain"
	"day-planner/internal/errors"
	"day-planner/internal/placement"
	"day-planner/internal/validation"
)

type occurrenceResponse struct {
	Event     domain.EventRecord `json:"event"`
	Date      string             `json:"date"`
	StartTime string             `json:"starttime"`
	EndTime   string             `json:"endtime"`
	XPosition float64            `json:"xposition"`
	Width     float64            `json:"width"`
	Anchor    bool               `json:"anchor"`
}

func (s *Server) occurrenceResponses(occ []domain.Occurrence) []occurrenceResponse {
	out := make([]occurrenceResponse, 0, len(occ))
	for _, o := range occ {
		out = append(out, occurrenceResponse{
			Event:     s.mapper.Event.ToRecord(o.Event),
			Date:      o.Date.String(),
			StartTime: o.StartTime.String(),
			EndTime:   o.EndTime.String(),
			XPosition: o.XPosition,
			Width:     o.Width,
			Anchor:    o.IsAnchor(),
		})
	}
	return out
}

func (s *Server) eventRecords(events []domain.Event) []domain.EventRecord {
	return s.mapper.Event.ToRecordSlice(events)
}

// eventUpdateRequest is a partial event edit. Absent fields are unchanged.
type eventUpdateRequest struct {
	Name            *string  `json:"name" validate:"omitempty,max=255"`
	Date            *string  `json:"date" validate:"omitempty,isodate"`
	OriginDate      *string  `json:"origindate" validate:"omitempty,isodate"`
	StartTime       *string  `json:"starttime" validate:"omitempty,clock"`
	EndTime         *string  `json:"endtime" validate:"omitempty,clock"`
	Type            *string  `json:"type" validate:"omitempty,oneof=event status focus"`
	XPosition       *float64 `json:"xposition" validate:"omitempty,gte=0,lte=100"`
	Width           *float64 `json:"width" validate:"omitempty,gte=0,lte=100"`
	BackgroundColor *string  `json:"backgroundcolor"`
	Color           *string  `json:"color"`
	OverlayText     *string  `json:"overlaytext"`
	VisualOnly      bool     `json:"visual_only"`
	Source          string   `json:"source" validate:"omitempty,oneof=form drag"`
}

// toUpdate converts an already validated request.
func (r eventUpdateRequest) toUpdate() (placement.Update, error) {
	u := placement.Update{
		Name:            r.Name,
		XPosition:       r.XPosition,
		Width:           r.Width,
		BackgroundColor: r.BackgroundColor,
		Color:           r.Color,
		OverlayText:     r.OverlayText,
		VisualOnly:      r.VisualOnly,
	}
	if r.Source == "drag" {
		u.Source = placement.SourceDrag
	}

	ve := validation.NewValidationError()
	if r.Date != nil {
		d, err := domain.ParseDate(*r.Date)
		if err != nil {
			ve.AddInvalidFormatError("date", *r.Date, "YYYY-MM-DD")
		}
		u.Date = &d
	}
	if r.OriginDate != nil {
		d, err := domain.ParseDate(*r.OriginDate)
		if err != nil {
			ve.AddInvalidFormatError("origindate", *r.OriginDate, "YYYY-MM-DD")
		}
		u.OriginDate = &d
	}
	if r.StartTime != nil {
		c, err := domain.ParseClock(*r.StartTime)
		if err != nil {
			ve.AddInvalidFormatError("starttime", *r.StartTime, "HH:MM")
		}
		u.StartTime = &c
	}
	if r.EndTime != nil {
		c, err := domain.ParseClock(*r.EndTime)
		if err != nil {
			ve.AddInvalidFormatError("endtime", *r.EndTime, "HH:MM")
		}
		u.EndTime = &c
	}
	if u.StartTime != nil && u.EndTime != nil && *u.EndTime <= *u.StartTime {
		ve.AddInvalidRangeError("endtime", *r.EndTime, "must be after starttime")
	}
	if r.Type != nil {
		t := domain.EventType(*r.Type)
		u.Type = &t
	}

	if ve.HasErrors() {
		return u, ve
	}
	return u, nil
}

type pointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rectDTO struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

func (r rectDTO) rect() placement.Rect {
	return placement.Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
}

// dropRequest asks where a vertical drop lands. DayStart and DayEnd
// override the configured visible range.
type dropRequest struct {
	Pointer    pointDTO `json:"pointer"`
	Grid       rectDTO  `json:"grid"`
	GrabOffset float64  `json:"grab_offset"`
	Duration   int      `json:"duration" validate:"gte=0,lte=1440"`
	DayStart   string   `json:"day_start" validate:"omitempty,clock"`
	DayEnd     string   `json:"day_end" validate:"omitempty,clock"`
}

// visibleRange overrides base with the request's day bounds.
func (r dropRequest) visibleRange(base placement.VisibleRange) (placement.VisibleRange, error) {
	visible := base
	if r.DayStart != "" {
		c, err := domain.ParseClock(r.DayStart)
		if err != nil {
			return base, errors.NewInvalidInputError("day_start", r.DayStart, err.Error())
		}
		visible.Start = c
	}
	if r.DayEnd != "" {
		c, err := domain.ParseClock(r.DayEnd)
		if err != nil {
			return base, errors.NewInvalidInputError("day_end", r.DayEnd, err.Error())
		}
		visible.End = c
	}
	if visible.End <= visible.Start {
		return base, errors.NewInvalidInputError("day_end", r.DayEnd, "must be after day_start")
	}
	return visible, nil
}

type dropResponse struct {
	StartTime string `json:"starttime"`
	EndTime   string `json:"endtime"`
}

// slotRequest asks which lane a horizontal drop lands in.
type slotRequest struct {
	Pointer    pointDTO `json:"pointer"`
	Grid       rectDTO  `json:"grid"`
	GrabOffset float64  `json:"grab_offset"`
	Width      float64  `json:"width" validate:"gte=0,lte=100"`
	Type       string   `json:"type" validate:"omitempty,oneof=event status focus"`
}

type slotResponse struct {
	XPosition float64 `json:"xposition"`
}

// DaySummary aggregates one calendar day.
type DaySummary struct {
	Date             string `json:"date" yaml:"date"`
	Events           int    `json:"events" yaml:"events"`
	ScheduledMinutes int    `json:"scheduled_minutes" yaml:"scheduled_minutes"`
	FocusMinutes     int    `json:"focus_minutes" yaml:"focus_minutes"`
	Tasks            int    `json:"tasks" yaml:"tasks"`
	CompletedTasks   int    `json:"completed_tasks" yaml:"completed_tasks"`
	EstimatedMinutes int    `json:"estimated_minutes" yaml:"estimated_minutes"`
}

// Summarize builds the summary of date from its occurrences and the user's
// tasks. Status events are not counted as scheduled time.
func Summarize(date domain.Date, occurrences []domain.Occurrence, tasks []domain.Task) DaySummary {
	summary := DaySummary{Date: date.String()}

	for _, o := range occurrences {
		if !o.Date.Equal(date) {
			continue
		}
		minutes := o.EndTime.Minutes() - o.StartTime.Minutes()
		if minutes < 0 {
			minutes = 0
		}
		switch o.Event.Type.Normalize() {
		case domain.EventTypeStatus:
			continue
		case domain.EventTypeFocus:
			summary.FocusMinutes += minutes
		}
		summary.Events++
		summary.ScheduledMinutes += minutes
	}

	for _, t := range tasks {
		if !t.Date.Equal(date) || t.Deleted {
			continue
		}
		summary.Tasks++
		summary.EstimatedMinutes += t.EstimatedTime
		if t.Completed {
			summary.CompletedTasks++
		}
	}
	return summary
}
