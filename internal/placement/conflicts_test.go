package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner/internal/domain"
)

func occurrence(id, start, end string, x, width float64) domain.Occurrence {
	ev := testEvent(id, "2024-01-01", start, end)
	ev.XPosition = x
	ev.Width = width
	return domain.NewOccurrence(ev, ev.Date)
}

func TestFindConflicts(t *testing.T) {
	existing := []domain.Occurrence{
		occurrence("overlap", "09:30", "10:30", 0, 50),
		occurrence("other-lane", "09:00", "10:00", 50, 50),
		occurrence("back-to-back", "10:00", "11:00", 0, 50),
		occurrence("before", "08:00", "09:00", 0, 100),
		occurrence("contains", "08:00", "12:00", 25, 10),
	}
	candidate := occurrence("new", "09:00", "10:00", 0, 50)

	conflicts := FindConflicts(existing, candidate)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "overlap", conflicts[0].Event.ID)
	assert.Equal(t, "contains", conflicts[1].Event.ID)
}

func TestFindConflicts_IgnoresOwnSeriesAndOtherDates(t *testing.T) {
	candidate := occurrence("new", "09:00", "10:00", 0, 100)

	self := occurrence("new", "09:00", "10:00", 0, 100)
	sibling := occurrence("sib", "09:00", "10:00", 0, 100)
	sibling.Event.RecurringEventID = "r1"
	candidate.Event.RecurringEventID = "r1"

	elsewhere := occurrence("far", "09:00", "10:00", 0, 100)
	elsewhere.Date = elsewhere.Date.AddDays(1)

	assert.Empty(t, FindConflicts([]domain.Occurrence{self, sibling, elsewhere}, candidate))
}

func TestFindConflicts_EmptyCandidate(t *testing.T) {
	existing := []domain.Occurrence{occurrence("a", "09:00", "10:00", 0, 100)}
	candidate := occurrence("b", "09:00", "09:00", 0, 100)
	assert.Nil(t, FindConflicts(existing, candidate))
}
