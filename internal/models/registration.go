package models

import "time"

// RegistrationStatus is the approval state of an enrollment request.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "Pending"
	RegistrationApproved RegistrationStatus = "Approved"
	RegistrationRejected RegistrationStatus = "Rejected"
)

// Valid reports whether s is a known registration status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected:
		return true
	}
	return false
}

// Registration is a student's request to enroll in a course.
type Registration struct {
	ID        int64              `json:"id"`
	UserEmail string             `json:"userEmail"`
	CourseID  int64              `json:"courseId"`
	Status    RegistrationStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
}

// RegistrationRequest is the payload for requesting a course.
type RegistrationRequest struct {
	UserEmail string `json:"userEmail"`
	CourseID  int64  `json:"courseId"`
}

// EnrichedRegistration is a Registration joined with its course and student for display.
type EnrichedRegistration struct {
	Registration
	Student       string `json:"student"`
	StudentEmail  string `json:"studentEmail"`
	CourseName    string `json:"courseName"`
	CourseFaculty string `json:"courseFaculty"`
	CourseTime    string `json:"courseTime"`
}
