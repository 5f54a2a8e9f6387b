package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
)

// Placeholders used when a registration points at a course that no longer exists.
const (
	RemovedCourseName = "Course removed"
	MissingField      = "-"
)

// Registrations returns every stored registration.
func (s *Store) Registrations(ctx context.Context) ([]models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registrations(ctx)
}

func (s *Store) registrations(ctx context.Context) ([]models.Registration, error) {
	regs, found, err := readRows[models.Registration](ctx, s, KeyRegistrations)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Registration{}, nil
	}
	return regs, nil
}

// CreateRegistration records a Pending request for the course. Each (student, course)
// pair has at most one row: an active row refuses the request and a Rejected row is
// reset to Pending.
func (s *Store) CreateRegistration(ctx context.Context, req models.RegistrationRequest) (Result, error) {
	email := normalizeEmail(req.UserEmail)
	if email == "" {
		return fail("Please login to register for a course."), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.courses(ctx)
	if err != nil {
		return Result{}, err
	}
	if indexOfCourse(courses, req.CourseID) < 0 {
		return notFound("Course not found."), nil
	}

	regs, err := s.registrations(ctx)
	if err != nil {
		return Result{}, err
	}
	for i := range regs {
		if normalizeEmail(regs[i].UserEmail) != email || regs[i].CourseID != req.CourseID {
			continue
		}
		if regs[i].Status != models.RegistrationRejected {
			return duplicate("You already requested this course."), nil
		}
		now := s.now()
		regs[i].Status = models.RegistrationPending
		regs[i].UpdatedAt = &now
		if err := s.writeSlot(ctx, KeyRegistrations, regs); err != nil {
			return Result{}, err
		}
		reg := regs[i]
		s.logger.Info("registration resubmitted", zap.Int64("registration_id", reg.ID), zap.Int64("course_id", reg.CourseID))
		s.notify(ctx, models.EventRegistrationCreated, email, reg)
		return Result{OK: true, Registration: &reg}, nil
	}

	reg := models.Registration{
		ID:        s.nextID(maxRegistrationID(regs)),
		UserEmail: email,
		CourseID:  req.CourseID,
		Status:    models.RegistrationPending,
		CreatedAt: s.now(),
	}
	if err := s.writeSlot(ctx, KeyRegistrations, append(regs, reg)); err != nil {
		return Result{}, err
	}

	s.logger.Info("registration created", zap.Int64("registration_id", reg.ID), zap.Int64("course_id", reg.CourseID))
	s.notify(ctx, models.EventRegistrationCreated, email, reg)
	return Result{OK: true, Registration: &reg}, nil
}

// UpdateRegistrationStatus sets the status of a registration and stamps updatedAt.
func (s *Store) UpdateRegistrationStatus(ctx context.Context, id int64, status models.RegistrationStatus) (Result, error) {
	if !status.Valid() {
		return fail("Status must be Pending, Approved or Rejected."), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	regs, err := s.registrations(ctx)
	if err != nil {
		return Result{}, err
	}
	idx := -1
	for i := range regs {
		if regs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("Registration not found."), nil
	}

	now := s.now()
	regs[idx].Status = status
	regs[idx].UpdatedAt = &now
	if err := s.writeSlot(ctx, KeyRegistrations, regs); err != nil {
		return Result{}, err
	}

	reg := regs[idx]
	s.logger.Info("registration status changed", zap.Int64("registration_id", id), zap.String("status", string(status)))
	s.notify(ctx, models.EventRegistrationStatusChanged, normalizeEmail(reg.UserEmail), reg)
	return Result{OK: true, Registration: &reg}, nil
}

// RegistrationsWithDetails joins every registration with its course and student.
func (s *Store) RegistrationsWithDetails(ctx context.Context) ([]models.EnrichedRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registrationsWithDetails(ctx, "")
}

// UserRegistrationsWithDetails is RegistrationsWithDetails limited to one student.
// A blank email matches nobody.
func (s *Store) UserRegistrationsWithDetails(ctx context.Context, email string) ([]models.EnrichedRegistration, error) {
	email = normalizeEmail(email)
	if email == "" {
		return []models.EnrichedRegistration{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registrationsWithDetails(ctx, email)
}

// registrationsWithDetails filters by email unless it is empty.
func (s *Store) registrationsWithDetails(ctx context.Context, email string) ([]models.EnrichedRegistration, error) {
	regs, err := s.registrations(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	courseByID := make(map[int64]models.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}
	nameByEmail := make(map[string]string, len(users))
	for _, u := range users {
		nameByEmail[normalizeEmail(u.Email)] = u.Name
	}

	out := make([]models.EnrichedRegistration, 0, len(regs))
	for _, r := range regs {
		if email != "" && normalizeEmail(r.UserEmail) != email {
			continue
		}
		er := models.EnrichedRegistration{
			Registration:  r,
			Student:       r.UserEmail,
			StudentEmail:  r.UserEmail,
			CourseName:    RemovedCourseName,
			CourseFaculty: MissingField,
			CourseTime:    MissingField,
		}
		if name := nameByEmail[normalizeEmail(r.UserEmail)]; name != "" {
			er.Student = name
		}
		if c, ok := courseByID[r.CourseID]; ok {
			er.CourseName = c.CourseName
			er.CourseFaculty = c.Faculty
			er.CourseTime = c.Time
		}
		out = append(out, er)
	}
	return out, nil
}

func maxRegistrationID(regs []models.Registration) int64 {
	var max int64
	for _, r := range regs {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}
