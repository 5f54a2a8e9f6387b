// Package schedule parses free-text course times and detects overlapping approved courses.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/eduportal/backend/internal/models"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	dayPrefixRe  = regexp.MustCompile(`(?i)^(Mon(?:day)?|Tue(?:s|sday)?|Wed(?:nesday)?|Thu(?:r|rs|rsday)?|Fri(?:day)?|Sat(?:urday)?|Sun(?:day)?)\s+(.+)$`)
	rangeSepRe   = regexp.MustCompile(`\s*[-–]\s*`)
	clockRe      = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(AM|PM)$`)
)

var dayKeyByInput = map[string]models.DayKey{
	"mon":       models.Monday,
	"monday":    models.Monday,
	"tue":       models.Tuesday,
	"tues":      models.Tuesday,
	"tuesday":   models.Tuesday,
	"wed":       models.Wednesday,
	"wednesday": models.Wednesday,
	"thu":       models.Thursday,
	"thur":      models.Thursday,
	"thurs":     models.Thursday,
	"thursday":  models.Thursday,
	"fri":       models.Friday,
	"friday":    models.Friday,
	"sat":       models.Saturday,
	"saturday":  models.Saturday,
	"sun":       models.Sunday,
	"sunday":    models.Sunday,
}

// DefaultDuration is the length assumed when a course time has no usable end.
const DefaultDuration = 60

// ParseTimeRange parses text like "Mon 10:00 AM - 11:00 AM" or "Tuesday 9 AM".
// It returns false when the day or start time cannot be recognized; a missing,
// malformed or non-increasing end falls back to start + DefaultDuration.
func ParseTimeRange(text string) (models.TimeRange, bool) {
	normalized := strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if normalized == "" {
		return models.TimeRange{}, false
	}

	m := dayPrefixRe.FindStringSubmatch(normalized)
	if m == nil {
		return models.TimeRange{}, false
	}
	day, ok := dayKeyByInput[strings.ToLower(m[1])]
	if !ok {
		return models.TimeRange{}, false
	}

	parts := rangeSepRe.Split(strings.TrimSpace(m[2]), -1)
	start, ok := parseClock(parts[0])
	if !ok {
		return models.TimeRange{}, false
	}

	end := start + DefaultDuration
	if len(parts) > 1 {
		if v, ok := parseClock(parts[1]); ok && v > start {
			end = v
		}
	}

	return models.TimeRange{
		DayKey:       day,
		DayLabel:     day.Label(),
		StartMinutes: start,
		EndMinutes:   end,
		Label:        fmt.Sprintf("%s %s - %s", day.Label(), FormatClock(start), FormatClock(end)),
	}, true
}

// parseClock converts "H[:MM] AM|PM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes := 0
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}
	if hours < 1 || hours > 12 || minutes > 59 {
		return 0, false
	}
	h24 := hours % 12
	if strings.EqualFold(m[3], "PM") {
		h24 += 12
	}
	return h24*60 + minutes, true
}

// FormatClock renders minutes since midnight as "h:mm AM". Negative values clamp to
// midnight and hours past 23 wrap around.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h24 := (minutes / 60) % 24
	meridiem := "AM"
	if h24 >= 12 {
		meridiem = "PM"
	}
	h12 := h24 % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, minutes%60, meridiem)
}
