package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the number of minutes in a calendar day.
	MinutesPerDay = 24 * 60

	// EndOfDay is the "24:00" sentinel used for events ending at midnight.
	EndOfDay Clock = MinutesPerDay
)

// Clock is a time of day expressed as minutes since midnight.
// Valid values lie in [0, 1440]; 1440 is the "24:00" end-of-day sentinel.
type Clock int

// ParseClock parses an "HH:MM" 24-hour string.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
	}

	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	total := hours*60 + minutes
	if total > MinutesPerDay {
		return 0, fmt.Errorf("invalid time %q: past 24:00", s)
	}

	return Clock(total), nil
}

// ParseClockOrZero parses an "HH:MM" string, returning midnight when the
// value is missing or malformed.
func ParseClockOrZero(s string) (Clock, bool) {
	c, err := ParseClock(s)
	if err != nil {
		return 0, false
	}
	return c, true
}

// MustParseClock is ParseClock for constants and tests.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Minutes returns the clock as minutes since midnight.
func (c Clock) Minutes() int {
	return int(c)
}

// Add shifts the clock by the given number of minutes, clamped to the day.
func (c Clock) Add(minutes int) Clock {
	return ClampClock(int(c) + minutes)
}

// ClampClock clamps a minute value into [0, 1440].
func ClampClock(minutes int) Clock {
	if minutes < 0 {
		return 0
	}
	if minutes > MinutesPerDay {
		return EndOfDay
	}
	return Clock(minutes)
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	m := int(c)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
