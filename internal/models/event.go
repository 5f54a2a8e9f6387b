package models

import (
	"encoding/json"
	"time"
)

// Change event types emitted by the registration store.
const (
	EventCourseCreated             = "course.created"
	EventCourseUpdated             = "course.updated"
	EventCourseDeleted             = "course.deleted"
	EventUserRegistered            = "user.registered"
	EventUserStatusChanged         = "user.status_changed"
	EventRegistrationCreated       = "registration.created"
	EventRegistrationStatusChanged = "registration.status_changed"
	EventConflictResolved          = "conflict.resolved"
)

// ChangeEvent describes a mutation of the store. StudentEmail is set when the change
// concerns a single student, so feeds can route it to that student only.
type ChangeEvent struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	StudentEmail string          `json:"studentEmail,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	At           time.Time       `json:"at"`
}
