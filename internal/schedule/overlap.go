package schedule

import (
	"fmt"

	"github.com/eduportal/backend/internal/models"
)

// Overlap is the shared window of two course times on the same day.
type Overlap struct {
	DayKey   models.DayKey
	DayLabel string
	Start    int
	End      int
}

// Label renders the window as "Monday 10:30 AM - 11:00 AM".
func (o Overlap) Label() string {
	return fmt.Sprintf("%s %s - %s", o.DayLabel, FormatClock(o.Start), FormatClock(o.End))
}

// DetectOverlap reports whether two course time strings overlap. Unparseable times
// and times on different days never overlap. Intervals are half-open, so a course
// ending at 11:00 does not clash with one starting at 11:00.
func DetectOverlap(a, b string) (Overlap, bool) {
	first, ok := ParseTimeRange(a)
	if !ok {
		return Overlap{}, false
	}
	second, ok := ParseTimeRange(b)
	if !ok {
		return Overlap{}, false
	}
	if first.DayKey != second.DayKey {
		return Overlap{}, false
	}
	if !(first.StartMinutes < second.EndMinutes && second.StartMinutes < first.EndMinutes) {
		return Overlap{}, false
	}
	return Overlap{
		DayKey:   first.DayKey,
		DayLabel: first.DayLabel,
		Start:    max(first.StartMinutes, second.StartMinutes),
		End:      min(first.EndMinutes, second.EndMinutes),
	}, true
}
