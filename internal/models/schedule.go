package models

// DayKey identifies a weekday.
type DayKey string

const (
	Monday    DayKey = "mon"
	Tuesday   DayKey = "tue"
	Wednesday DayKey = "wed"
	Thursday  DayKey = "thu"
	Friday    DayKey = "fri"
	Saturday  DayKey = "sat"
	Sunday    DayKey = "sun"
)

var dayLabels = map[DayKey]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// Label returns the full day name, or "" for an unknown key.
func (d DayKey) Label() string {
	return dayLabels[d]
}

// Valid reports whether d is a known day.
func (d DayKey) Valid() bool {
	_, ok := dayLabels[d]
	return ok
}

// TimeRange is a course time normalized to a weekday and a minute-of-day interval.
type TimeRange struct {
	DayKey       DayKey `json:"dayKey"`
	DayLabel     string `json:"dayLabel"`
	StartMinutes int    `json:"startMinutes"`
	EndMinutes   int    `json:"endMinutes"`
	Label        string `json:"normalizedLabel"`
}

// Conflict is a time overlap between two approved registrations of the same student.
type Conflict struct {
	ID           string    `json:"id"`
	Student      string    `json:"student"`
	StudentEmail string    `json:"studentEmail"`
	CourseIDs    [2]int64  `json:"courseIds"`
	CourseNames  [2]string `json:"courseNames"`
	TimeAlert    string    `json:"timeAlert"`
	Message      string    `json:"message"`
}
