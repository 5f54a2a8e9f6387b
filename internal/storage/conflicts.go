package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/internal/schedule"
)

// Conflicts scans all registrations for schedule clashes.
func (s *Store) Conflicts(ctx context.Context) ([]models.Conflict, error) {
	regs, err := s.RegistrationsWithDetails(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.ScanConflicts(regs), nil
}

// ResolvedConflictIDs returns the conflict ids an administrator marked as resolved.
func (s *Store) ResolvedConflictIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolvedConflictIDs(ctx)
}

func (s *Store) resolvedConflictIDs(ctx context.Context) ([]string, error) {
	ids, found, err := readRows[string](ctx, s, KeyResolvedConflicts)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	return ids, nil
}

// ResolveConflict marks a conflict id as resolved. Resolving it again changes nothing.
func (s *Store) ResolveConflict(ctx context.Context, id string) (Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return fail("Conflict id is required."), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.resolvedConflictIDs(ctx)
	if err != nil {
		return Result{}, err
	}
	for _, existing := range ids {
		if existing == id {
			return Result{OK: true}, nil
		}
	}
	if err := s.writeSlot(ctx, KeyResolvedConflicts, append(ids, id)); err != nil {
		return Result{}, err
	}

	s.logger.Info("conflict resolved", zap.String("conflict_id", id))
	s.notify(ctx, models.EventConflictResolved, "", map[string]string{"id": id})
	return Result{OK: true}, nil
}

// ConflictReports returns the current conflicts with a suggestion and resolved flag each.
func (s *Store) ConflictReports(ctx context.Context) ([]models.ConflictReport, error) {
	conflicts, err := s.Conflicts(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := s.ResolvedConflictIDs(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(resolved))
	for _, id := range resolved {
		done[id] = true
	}

	reports := make([]models.ConflictReport, 0, len(conflicts))
	for _, c := range conflicts {
		reports = append(reports, models.ConflictReport{
			Conflict:       c,
			AutoSuggestion: fmt.Sprintf("Adjust timing for one of: %s, %s or reject one registration.", c.CourseNames[0], c.CourseNames[1]),
			Resolved:       done[c.ID],
		})
	}
	return reports, nil
}
