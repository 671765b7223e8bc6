package domain

import "time"

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a user's to-do item placed on the calendar.
type Task struct {
	ID            string
	Title         string
	Date          Date
	Time          Clock
	Priority      Priority
	Nudge         *int // minutes before Time to notify
	XPosition     float64
	EstimatedTime int // minutes
	Completed     bool
	Deleted       bool
}

// NewTask creates a task with medium priority.
func NewTask(title string, date Date, at Clock) Task {
	return Task{
		Title:    title,
		Date:     date,
		Time:     at,
		Priority: PriorityMedium,
	}
}

// IsValid checks if the task has the fields required to place it.
func (t Task) IsValid() bool {
	return t.Title != "" && !t.Date.IsZero()
}

// DueAt returns the instant the task is scheduled for.
func (t Task) DueAt(loc *time.Location) time.Time {
	return t.Date.At(t.Time, loc)
}

// NudgeAt returns the instant a nudge should fire, if the task has one.
func (t Task) NudgeAt(loc *time.Location) (time.Time, bool) {
	if t.Nudge == nil {
		return time.Time{}, false
	}
	return t.DueAt(loc).Add(-time.Duration(*t.Nudge) * time.Minute), true
}
