package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eduportal/backend/internal/models"
)

// ScanConflicts returns one Conflict for every pair of approved registrations of the
// same student whose course times overlap. Course ids and names inside a conflict
// are ordered by course id, and the result is sorted by conflict id, so the output
// does not depend on the order of regs. regs is not modified.
func ScanConflicts(regs []models.EnrichedRegistration) []models.Conflict {
	approved := make([]models.EnrichedRegistration, 0, len(regs))
	for _, r := range regs {
		if r.Status == models.RegistrationApproved {
			approved = append(approved, r)
		}
	}

	conflicts := []models.Conflict{}
	for i := 0; i < len(approved); i++ {
		for j := i + 1; j < len(approved); j++ {
			first, second := approved[i], approved[j]
			email := normalizeEmail(first.StudentEmail)
			if email != normalizeEmail(second.StudentEmail) {
				continue
			}
			if first.CourseID == second.CourseID {
				continue
			}
			overlap, ok := DetectOverlap(first.CourseTime, second.CourseTime)
			if !ok {
				continue
			}
			if second.CourseID < first.CourseID {
				first, second = second, first
			}
			conflicts = append(conflicts, models.Conflict{
				ID:           ConflictID(email, first.CourseID, second.CourseID),
				Student:      first.Student,
				StudentEmail: email,
				CourseIDs:    [2]int64{first.CourseID, second.CourseID},
				CourseNames:  [2]string{first.CourseName, second.CourseName},
				TimeAlert:    overlap.Label(),
				Message:      fmt.Sprintf("%s overlaps with %s", first.CourseName, second.CourseName),
			})
		}
	}

	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].ID < conflicts[j].ID })
	return conflicts
}

// ConflictID builds the stable id of a conflict between two courses of one student.
func ConflictID(studentEmail string, courseA, courseB int64) string {
	if courseB < courseA {
		courseA, courseB = courseB, courseA
	}
	return fmt.Sprintf("%s-%d-%d", normalizeEmail(studentEmail), courseA, courseB)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
