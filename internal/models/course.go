package models

// Course is a catalog entry. Time is free text such as "Mon 10:00 AM - 11:00 AM".
type Course struct {
	ID         int64  `json:"id"`
	CourseName string `json:"courseName"`
	Faculty    string `json:"faculty"`
	Time       string `json:"time"`
}

// CourseInput is the payload for creating a course.
type CourseInput struct {
	CourseName string `json:"courseName" binding:"required" validate:"required"`
	Faculty    string `json:"faculty" binding:"required" validate:"required"`
	Time       string `json:"time" binding:"required,coursetime" validate:"required,coursetime"`
}

// CoursePatch holds the fields to change on an existing course. Nil fields are kept.
type CoursePatch struct {
	CourseName *string `json:"courseName"`
	Faculty    *string `json:"faculty"`
	Time       *string `json:"time"`
}

// Apply returns a copy of c with the non-nil patch fields merged in.
func (p CoursePatch) Apply(c Course) Course {
	if p.CourseName != nil {
		c.CourseName = *p.CourseName
	}
	if p.Faculty != nil {
		c.Faculty = *p.Faculty
	}
	if p.Time != nil {
		c.Time = *p.Time
	}
	return c
}
