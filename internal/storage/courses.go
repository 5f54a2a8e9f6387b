package storage

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
)

// Courses returns the catalog. A missing or unreadable slot yields the default courses.
func (s *Store) Courses(ctx context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courses(ctx)
}

func (s *Store) courses(ctx context.Context) ([]models.Course, error) {
	courses, found, err := readRows[models.Course](ctx, s, KeyCourses)
	if err != nil {
		return nil, err
	}
	if !found {
		return append([]models.Course(nil), DefaultCourses...), nil
	}
	return courses, nil
}

// SearchCourses returns the courses whose name, faculty or time contains query, ignoring case.
// A blank query returns every course.
func (s *Store) SearchCourses(ctx context.Context, query string) ([]models.Course, error) {
	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return courses, nil
	}
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.CourseName), q) ||
			strings.Contains(strings.ToLower(c.Faculty), q) ||
			strings.Contains(strings.ToLower(c.Time), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// AddCourse validates and appends a course.
func (s *Store) AddCourse(ctx context.Context, in models.CourseInput) (Result, error) {
	in.CourseName = strings.TrimSpace(in.CourseName)
	in.Faculty = strings.TrimSpace(in.Faculty)
	in.Time = strings.TrimSpace(in.Time)
	if err := s.validate.Struct(in); err != nil {
		return s.validationFailure(err), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.courses(ctx)
	if err != nil {
		return Result{}, err
	}
	course := models.Course{
		ID:         s.nextID(maxCourseID(courses)),
		CourseName: in.CourseName,
		Faculty:    in.Faculty,
		Time:       in.Time,
	}
	if err := s.writeSlot(ctx, KeyCourses, append(courses, course)); err != nil {
		return Result{}, err
	}

	s.logger.Info("course added", zap.Int64("course_id", course.ID), zap.String("name", course.CourseName))
	s.notify(ctx, models.EventCourseCreated, "", course)
	return Result{OK: true, Course: &course}, nil
}

// UpdateCourse merges patch into the course with the given id. The merged course must still validate.
func (s *Store) UpdateCourse(ctx context.Context, id int64, patch models.CoursePatch) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.courses(ctx)
	if err != nil {
		return Result{}, err
	}
	idx := indexOfCourse(courses, id)
	if idx < 0 {
		return notFound("Course not found."), nil
	}

	updated := patch.Apply(courses[idx])
	updated.CourseName = strings.TrimSpace(updated.CourseName)
	updated.Faculty = strings.TrimSpace(updated.Faculty)
	updated.Time = strings.TrimSpace(updated.Time)
	check := models.CourseInput{CourseName: updated.CourseName, Faculty: updated.Faculty, Time: updated.Time}
	if err := s.validate.Struct(check); err != nil {
		return s.validationFailure(err), nil
	}

	courses[idx] = updated
	if err := s.writeSlot(ctx, KeyCourses, courses); err != nil {
		return Result{}, err
	}

	s.logger.Info("course updated", zap.Int64("course_id", id))
	s.notify(ctx, models.EventCourseUpdated, "", updated)
	return Result{OK: true, Course: &updated}, nil
}

// DeleteCourse removes a course and every registration that references it.
func (s *Store) DeleteCourse(ctx context.Context, id int64) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.courses(ctx)
	if err != nil {
		return Result{}, err
	}
	regs, err := s.registrations(ctx)
	if err != nil {
		return Result{}, err
	}

	keptCourses := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.ID != id {
			keptCourses = append(keptCourses, c)
		}
	}
	keptRegs := make([]models.Registration, 0, len(regs))
	for _, r := range regs {
		if r.CourseID != id {
			keptRegs = append(keptRegs, r)
		}
	}
	removedRegs := len(regs) - len(keptRegs)
	if len(keptCourses) == len(courses) && removedRegs == 0 {
		return notFound("Course not found."), nil
	}

	// registrations first: a failed second write leaves the course without
	// registrations rather than registrations without a course
	if err := s.writeSlot(ctx, KeyRegistrations, keptRegs); err != nil {
		return Result{}, err
	}
	if err := s.writeSlot(ctx, KeyCourses, keptCourses); err != nil {
		return Result{}, err
	}

	s.logger.Info("course deleted", zap.Int64("course_id", id), zap.Int("registrations_removed", removedRegs))
	s.notify(ctx, models.EventCourseDeleted, "", map[string]int64{"id": id})
	return Result{OK: true}, nil
}

func indexOfCourse(courses []models.Course, id int64) int {
	for i, c := range courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func maxCourseID(courses []models.Course) int64 {
	var max int64
	for _, c := range courses {
		if c.ID > max {
			max = c.ID
		}
	}
	return max
}
