package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WeekdaySet records which weekdays a daily series fires on.
type WeekdaySet map[time.Weekday]bool

// weekdayNames are the lowercase en-US full names used as keys at the
// persistence edge.
var weekdayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayName returns the lowercase full name of a weekday, e.g. "monday".
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// ParseWeekday resolves a lowercase or capitalized full weekday name.
func ParseWeekday(name string) (time.Weekday, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range weekdayNames {
		if n == lower {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// NewWeekdaySet builds a set with the given days enabled.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	set := make(WeekdaySet, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

// Has reports whether the weekday is enabled.
func (s WeekdaySet) Has(d time.Weekday) bool {
	return s[d]
}

// Days returns the enabled weekdays in Sunday-first order.
func (s WeekdaySet) Days() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s[d] {
			days = append(days, d)
		}
	}
	return days
}

// Equal reports whether both sets flag the same weekdays.
func (s WeekdaySet) Equal(o WeekdaySet) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) != o.Has(d) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no weekday is enabled.
func (s WeekdaySet) IsEmpty() bool {
	return len(s.Days()) == 0
}

// Encode serializes the set into its string-encoded object form,
// e.g. {"monday":true,"wednesday":true}. An empty set encodes as "".
func (s WeekdaySet) Encode() string {
	if s.IsEmpty() {
		return ""
	}
	obj := make(map[string]bool, len(s))
	for _, d := range s.Days() {
		obj[WeekdayName(d)] = true
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeWeekdaySet parses the string-encoded object form. An empty string
// decodes to an empty set; any other malformed input is an error. Values
// follow truthiness: true, non-zero numbers and non-empty strings enable a day.
func DecodeWeekdaySet(raw string) (WeekdaySet, error) {
	set := make(WeekdaySet)
	if strings.TrimSpace(raw) == "" {
		return set, nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return set, fmt.Errorf("invalid recurring days %q: %w", raw, err)
	}

	for name, value := range obj {
		day, ok := ParseWeekday(name)
		if !ok {
			continue
		}
		if truthy(value) {
			set[day] = true
		}
	}
	return set, nil
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case nil:
		return false
	default:
		return true
	}
}
