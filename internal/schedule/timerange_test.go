package schedule

import (
	"testing"

	"github.com/eduportal/backend/internal/models"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		day   models.DayKey
		start int
		end   int
		label string
	}{
		{"full range", "Mon 10:00 AM - 11:00 AM", models.Monday, 600, 660, "Monday 10:00 AM - 11:00 AM"},
		{"start only defaults to an hour", "Tuesday 9 AM", models.Tuesday, 540, 600, "Tuesday 9:00 AM - 10:00 AM"},
		{"en dash and pm", "Wed 1:30 PM – 3 PM", models.Wednesday, 810, 900, "Wednesday 1:30 PM - 3:00 PM"},
		{"informal thurs", "thurs 9:00 am-10:15 am", models.Thursday, 540, 615, "Thursday 9:00 AM - 10:15 AM"},
		{"tues alias", "Tues 2 PM", models.Tuesday, 840, 900, "Tuesday 2:00 PM - 3:00 PM"},
		{"thur alias", "Thur 8:05 AM", models.Thursday, 485, 545, "Thursday 8:05 AM - 9:05 AM"},
		{"midnight", "Sun 12 AM - 1 AM", models.Sunday, 0, 60, "Sunday 12:00 AM - 1:00 AM"},
		{"noon", "Sat 12:00 PM", models.Saturday, 720, 780, "Saturday 12:00 PM - 1:00 PM"},
		{"extra whitespace", "  Fri    10:00   AM  -  11:00 AM ", models.Friday, 600, 660, "Friday 10:00 AM - 11:00 AM"},
		{"no space before meridiem", "Mon 10AM - 11AM", models.Monday, 600, 660, "Monday 10:00 AM - 11:00 AM"},
		{"end before start heals", "Mon 10:00 AM - 9:00 AM", models.Monday, 600, 660, "Monday 10:00 AM - 11:00 AM"},
		{"end equal start heals", "Mon 10:00 AM - 10:00 AM", models.Monday, 600, 660, "Monday 10:00 AM - 11:00 AM"},
		{"malformed end heals", "Mon 10:00 AM - later", models.Monday, 600, 660, "Monday 10:00 AM - 11:00 AM"},
		{"dangling separator", "Mon 10:00 AM -", models.Monday, 600, 660, "Monday 10:00 AM - 11:00 AM"},
	}

	for _, tt := range tests {
		got, ok := ParseTimeRange(tt.input)
		if !ok {
			t.Errorf("%s: ParseTimeRange(%q) failed", tt.name, tt.input)
			continue
		}
		if got.DayKey != tt.day || got.StartMinutes != tt.start || got.EndMinutes != tt.end {
			t.Errorf("%s: got %s %d-%d, want %s %d-%d", tt.name, got.DayKey, got.StartMinutes, got.EndMinutes, tt.day, tt.start, tt.end)
		}
		if got.DayLabel != tt.day.Label() {
			t.Errorf("%s: DayLabel = %q, want %q", tt.name, got.DayLabel, tt.day.Label())
		}
		if got.Label != tt.label {
			t.Errorf("%s: Label = %q, want %q", tt.name, got.Label, tt.label)
		}
	}
}

func TestParseTimeRange_Failures(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Funday 10 AM",
		"10:00 AM - 11:00 AM",
		"Monday",
		"Mon10 AM",
		"Mon 13:00 PM",
		"Mon 0:30 AM",
		"Mon 10:60 AM",
		"Mon 10:00",
		"Mon ten AM",
		"Mon - 10 AM",
	}
	for _, in := range inputs {
		if got, ok := ParseTimeRange(in); ok {
			t.Errorf("ParseTimeRange(%q) = %+v, want failure", in, got)
		}
	}
}

func TestParseTimeRange_LabelRoundTrip(t *testing.T) {
	inputs := []string{
		"Mon 10:00 AM - 11:00 AM",
		"tue 9 am - 10:30 am",
		"Wednesday 12:15 PM - 2:45 PM",
		"Thurs 7:05 AM - 7:55 AM",
		"Fri 11:00 AM - 12:00 PM",
		"Sunday 12:00 AM - 12:30 AM",
	}
	for _, in := range inputs {
		first, ok := ParseTimeRange(in)
		if !ok {
			t.Fatalf("ParseTimeRange(%q) failed", in)
		}
		second, ok := ParseTimeRange(first.Label)
		if !ok {
			t.Fatalf("ParseTimeRange(%q) failed on canonical label", first.Label)
		}
		if first != second {
			t.Errorf("round trip of %q: %+v != %+v", in, first, second)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "12:00 AM"},
		{59, "12:59 AM"},
		{600, "10:00 AM"},
		{720, "12:00 PM"},
		{810, "1:30 PM"},
		{1439, "11:59 PM"},
		{1470, "12:30 AM"},
		{-5, "12:00 AM"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
