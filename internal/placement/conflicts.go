package placement

import (
	"day-planner/internal/domain"
)

// FindConflicts returns the occurrences on the candidate's date whose time
// span and lane both overlap it, in input order. Occurrences of the
// candidate's own event or series are ignored. Spans are half-open, so
// back-to-back events do not conflict.
func FindConflicts(occurrences []domain.Occurrence, candidate domain.Occurrence) []domain.Occurrence {
	if candidate.EndTime <= candidate.StartTime {
		return nil
	}

	var out []domain.Occurrence
	for _, occ := range occurrences {
		if !occ.Date.Equal(candidate.Date) || occ.EndTime <= occ.StartTime {
			continue
		}
		if occ.Event.ID == candidate.Event.ID || occ.SeriesKey() == candidate.SeriesKey() {
			continue
		}
		if occ.StartTime < candidate.EndTime && candidate.StartTime < occ.EndTime && lanesOverlap(occ, candidate) {
			out = append(out, occ)
		}
	}
	return out
}

func lanesOverlap(a, b domain.Occurrence) bool {
	return a.XPosition < b.XPosition+b.Width && b.XPosition < a.XPosition+a.Width
}
