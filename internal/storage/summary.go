package storage

import (
	"context"
	"fmt"

	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/schedule"
)

// AdminSummary counts the figures shown on the admin dashboard.
func (s *Store) AdminSummary(ctx context.Context) (models.AdminSummary, error) {
	var sum models.AdminSummary

	courses, err := s.Courses(ctx)
	if err != nil {
		return sum, err
	}
	users, err := s.Users(ctx)
	if err != nil {
		return sum, err
	}
	reports, err := s.ConflictReports(ctx)
	if err != nil {
		return sum, err
	}
	regs, err := s.Registrations(ctx)
	if err != nil {
		return sum, err
	}

	sum.TotalCourses = len(courses)
	for _, u := range users {
		if u.Role == models.RoleUser {
			sum.TotalStudents++
		}
	}
	for _, r := range regs {
		switch r.Status {
		case models.RegistrationPending:
			sum.PendingRegistrations++
		case models.RegistrationApproved:
			sum.ApprovedRegistrations++
		}
	}
	sum.ConflictAlerts = len(reports)
	for _, r := range reports {
		if !r.Resolved {
			sum.ActiveConflictAlerts++
		}
	}
	return sum, nil
}

// StudentSummary builds the dashboard of one student.
func (s *Store) StudentSummary(ctx context.Context, email string) (models.StudentSummary, error) {
	regs, err := s.UserRegistrationsWithDetails(ctx, email)
	if err != nil {
		return models.StudentSummary{}, err
	}

	sum := models.StudentSummary{
		EnrolledCourses: []string{},
		Schedule:        []string{},
		UpcomingClasses: []string{},
	}
	var firstPending string
	for _, r := range regs {
		switch r.Status {
		case models.RegistrationApproved:
			sum.EnrolledCourses = append(sum.EnrolledCourses, r.CourseName)
			sum.Schedule = append(sum.Schedule, scheduleLine(r))
		case models.RegistrationPending:
			if firstPending == "" {
				firstPending = r.CourseName
			}
			sum.UpcomingClasses = append(sum.UpcomingClasses, r.CourseName+" (Pending approval)")
		}
	}

	switch {
	case len(sum.Schedule) > 0:
		sum.NextClass = sum.Schedule[0]
	case firstPending != "":
		sum.NextClass = firstPending + " (Pending)"
	default:
		sum.NextClass = "No class"
	}
	return sum, nil
}

// StudentSchedule lists the approved courses of one student with a warning per clash.
func (s *Store) StudentSchedule(ctx context.Context, email string) (models.StudentSchedule, error) {
	regs, err := s.UserRegistrationsWithDetails(ctx, email)
	if err != nil {
		return models.StudentSchedule{}, err
	}

	out := models.StudentSchedule{
		Courses:  []models.EnrichedRegistration{},
		Warnings: []string{},
	}
	for _, r := range regs {
		if r.Status == models.RegistrationApproved {
			out.Courses = append(out.Courses, r)
		}
	}
	for _, c := range schedule.ScanConflicts(regs) {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s (%s)", c.Message, c.TimeAlert))
	}
	return out, nil
}

// StudentRosters lists student accounts with their approved courses and schedule lines.
func (s *Store) StudentRosters(ctx context.Context) ([]models.StudentRoster, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	regs, err := s.RegistrationsWithDetails(ctx)
	if err != nil {
		return nil, err
	}

	byEmail := make(map[string][]models.EnrichedRegistration)
	for _, r := range regs {
		if r.Status == models.RegistrationApproved {
			key := normalizeEmail(r.StudentEmail)
			byEmail[key] = append(byEmail[key], r)
		}
	}

	rosters := []models.StudentRoster{}
	for i := range users {
		if users[i].Role != models.RoleUser {
			continue
		}
		roster := models.StudentRoster{
			UserPublic:        users[i].ToPublic(),
			RegisteredCourses: []string{},
			Schedule:          []string{},
		}
		for _, r := range byEmail[normalizeEmail(users[i].Email)] {
			roster.RegisteredCourses = append(roster.RegisteredCourses, r.CourseName)
			roster.Schedule = append(roster.Schedule, scheduleLine(r))
		}
		rosters = append(rosters, roster)
	}
	return rosters, nil
}

func scheduleLine(r models.EnrichedRegistration) string {
	return r.CourseTime + " - " + r.CourseName
}
