package domain

// EventRecord is the persisted and wire shape of an event. Field names are
// lowercase at this boundary; Mapper converts to and from Event.
type EventRecord struct {
	ID               string  `json:"id" db:"id"`
	UserID           string  `json:"-" db:"user_id"`
	Name             string  `json:"name" db:"name" validate:"max=255"`
	Date             string  `json:"date" db:"date" validate:"required,isodate"`
	StartTime        string  `json:"starttime" db:"starttime" validate:"required,clock"`
	EndTime          string  `json:"endtime" db:"endtime" validate:"required,clock"`
	Type             string  `json:"type,omitempty" db:"type" validate:"omitempty,oneof=event status focus"`
	XPosition        float64 `json:"xposition" db:"xposition" validate:"gte=0,lte=100"`
	Width            float64 `json:"width" db:"width" validate:"gte=0,lte=100"`
	BackgroundColor  string  `json:"backgroundcolor,omitempty" db:"backgroundcolor"`
	Color            string  `json:"color,omitempty" db:"color"`
	Recurring        string  `json:"recurring" db:"recurring" validate:"omitempty,oneof=none daily weekly monthly"`
	RecurringDays    string  `json:"recurringdays,omitempty" db:"recurringdays" validate:"omitempty,weekdays"`
	RecurringEventID string  `json:"recurringeventid,omitempty" db:"recurringeventid"`
	OverlayText      string  `json:"overlaytext,omitempty" db:"overlaytext"`
}

// TaskRecord is the persisted and wire shape of a task. Deleted only travels
// through the save path; it is never stored.
type TaskRecord struct {
	ID            string  `json:"id" db:"id"`
	UserID        string  `json:"-" db:"user_id"`
	Title         string  `json:"title" db:"title" validate:"required,max=255"`
	Date          string  `json:"date" db:"date" validate:"required,isodate"`
	Time          string  `json:"time" db:"time" validate:"required,clock"`
	Priority      string  `json:"priority" db:"priority" validate:"omitempty,oneof=low medium high"`
	Nudge         *int    `json:"nudge,omitempty" db:"nudge" validate:"omitempty,gte=0"`
	XPosition     float64 `json:"xposition" db:"xposition" validate:"gte=0,lte=100"`
	EstimatedTime int     `json:"estimated_time" db:"estimated_time" validate:"gte=0"`
	Completed     bool    `json:"completed" db:"completed"`
	Deleted       bool    `json:"deleted,omitempty" db:"-"`
}

// fieldNames pairs each in-memory field name with its boundary name.
var fieldNames = [][2]string{
	{"id", "id"},
	{"name", "name"},
	{"date", "date"},
	{"startTime", "starttime"},
	{"endTime", "endtime"},
	{"type", "type"},
	{"xPosition", "xposition"},
	{"width", "width"},
	{"backgroundColor", "backgroundcolor"},
	{"color", "color"},
	{"recurring", "recurring"},
	{"recurringDays", "recurringdays"},
	{"recurringEventId", "recurringeventid"},
	{"overlayText", "overlaytext"},
	{"title", "title"},
	{"time", "time"},
	{"priority", "priority"},
	{"nudge", "nudge"},
	{"estimatedTime", "estimated_time"},
	{"completed", "completed"},
	{"deleted", "deleted"},
}

var (
	toBoundary = make(map[string]string, len(fieldNames))
	toCore     = make(map[string]string, len(fieldNames))
)

func init() {
	for _, pair := range fieldNames {
		toBoundary[pair[0]] = pair[1]
		toCore[pair[1]] = pair[0]
	}
}

// BoundaryFieldName returns the lowercase boundary name for an in-memory
// field name. Names already in boundary form are returned unchanged.
func BoundaryFieldName(name string) (string, bool) {
	if b, ok := toBoundary[name]; ok {
		return b, true
	}
	if _, ok := toCore[name]; ok {
		return name, true
	}
	return name, false
}

// CoreFieldName returns the in-memory name for a boundary field name.
func CoreFieldName(name string) (string, bool) {
	if c, ok := toCore[name]; ok {
		return c, true
	}
	if _, ok := toBoundary[name]; ok {
		return name, true
	}
	return name, false
}

// NormalizeKeys rewrites the keys of a decoded JSON object into boundary
// form so camelCase and lowercase payloads decode identically. Unknown keys
// are dropped.
func NormalizeKeys(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		if b, ok := BoundaryFieldName(k); ok {
			out[b] = v
		}
	}
	return out
}
