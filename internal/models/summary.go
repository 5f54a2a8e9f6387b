package models

// ConflictReport is a Conflict annotated for the admin resolver view.
type ConflictReport struct {
	Conflict
	AutoSuggestion string `json:"autoSuggestion"`
	Resolved       bool   `json:"resolved"`
}

// AdminSummary holds the counters shown on the admin dashboard.
type AdminSummary struct {
	TotalCourses          int `json:"totalCourses"`
	TotalStudents         int `json:"totalStudents"`
	PendingRegistrations  int `json:"pendingRegistrations"`
	ApprovedRegistrations int `json:"approvedRegistrations"`
	ConflictAlerts        int `json:"conflictAlerts"`
	ActiveConflictAlerts  int `json:"activeConflictAlerts"`
}

// StudentSummary is the student dashboard.
type StudentSummary struct {
	EnrolledCourses []string `json:"enrolledCourses"`
	Schedule        []string `json:"schedule"`
	UpcomingClasses []string `json:"upcomingClasses"`
	NextClass       string   `json:"nextClass"`
}

// StudentSchedule lists a student's approved courses with clash warnings.
type StudentSchedule struct {
	Courses  []EnrichedRegistration `json:"courses"`
	Warnings []string               `json:"warnings"`
}
