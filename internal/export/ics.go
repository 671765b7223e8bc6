// Package export renders expanded occurrences as an iCalendar feed.
package export

import (
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"day-planner/internal/domain"
	"day-planner/internal/logging"
)

const (
	defaultProductID = "-//day-planner//planner//EN"
	defaultName      = "Planner"

	// propertySeries carries the series id so clients can group occurrences.
	propertySeries ical.ComponentProperty = "X-PLANNER-SERIES"
	propertyColor  ical.ComponentProperty = "COLOR"
)

// Options configures an ICS exporter.
type Options struct {
	Location  *time.Location
	ProductID string
	Name      string
	Now       func() time.Time
	Logger    *logging.Logger
}

// ICS builds iCalendar documents from occurrences. Each occurrence becomes
// one VEVENT; recurrence has already been expanded, so no RRULE is written.
type ICS struct {
	opts   Options
	logger *logging.Logger
}

// NewICS creates an exporter with defaults applied.
func NewICS(opts Options) *ICS {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ProductID == "" {
		opts.ProductID = defaultProductID
	}
	if opts.Name == "" {
		opts.Name = defaultName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ICS{opts: opts, logger: logging.OrNop(opts.Logger).WithComponent("export")}
}

// Calendar converts occurrences into a calendar. Occurrences with an empty
// time span are skipped.
func (x *ICS) Calendar(occurrences []domain.Occurrence) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(x.opts.ProductID)
	cal.SetXWRCalName(x.opts.Name)

	stamp := x.opts.Now().UTC()
	for _, occ := range occurrences {
		if occ.EndTime <= occ.StartTime {
			x.logger.Debugw("skipping empty occurrence", "event_id", occ.Event.ID, "date", occ.Date.String())
			continue
		}

		ev := cal.AddEvent(UID(occ))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(occ.Date.At(occ.StartTime, x.opts.Location))
		ev.SetEndAt(occ.Date.At(occ.EndTime, x.opts.Location))
		ev.SetSummary(summary(occ))
		ev.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(occ.Event.Type.Normalize())))

		if occ.Event.Type.Normalize() == domain.EventTypeFocus {
			ev.SetDescription(occ.Event.Overlay())
		}
		if occ.Event.BackgroundColor != "" {
			ev.SetProperty(propertyColor, occ.Event.BackgroundColor)
		}
		if occ.Event.RecurringEventID != "" {
			ev.SetProperty(propertySeries, occ.Event.RecurringEventID)
		}
	}
	return cal
}

// Write serializes the occurrences to w.
func (x *ICS) Write(w io.Writer, occurrences []domain.Occurrence) error {
	_, err := io.WriteString(w, x.Calendar(occurrences).Serialize())
	return err
}

// UID identifies one occurrence. It is stable across exports so calendar
// clients update instead of duplicating.
func UID(occ domain.Occurrence) string {
	return occ.Event.ID + "-" + strings.ReplaceAll(occ.Date.String(), "-", "") + "@day-planner"
}

func summary(occ domain.Occurrence) string {
	if strings.TrimSpace(occ.Event.Name) != "" {
		return occ.Event.Name
	}
	return "(untitled)"
}
