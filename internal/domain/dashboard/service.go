// Package dashboard assembles the landing-page stats from the patient,
// action, and timeline stores.
package dashboard

import (
	"context"
	"time"

	"github.com/careflow/careflow/internal/domain/action"
	"github.com/careflow/careflow/internal/domain/patient"
	"github.com/careflow/careflow/internal/domain/timeline"
	"github.com/careflow/careflow/internal/domain/workflow"
)

// Stats backs the dashboard tiles and the per-department pending strip.
type Stats struct {
	TotalPatients       int               `json:"total_patients"`
	PendingActions      int               `json:"pending_actions"`
	InProgressActions   int               `json:"in_progress_actions"`
	CompletedToday      int               `json:"completed_today"`
	PendingByDepartment map[string]int    `json:"pending_by_department"`
	RecentEvents        []*timeline.Event `json:"recent_events"`
}

type Service struct {
	patients patient.PatientRepository
	actions  action.ActionRepository
	events   timeline.EventRepository
	now      func() time.Time
}

func NewService(patients patient.PatientRepository, actions action.ActionRepository, events timeline.EventRepository) *Service {
	return &Service{patients: patients, actions: actions, events: events, now: time.Now}
}

const recentEventLimit = 10

// Stats computes the dashboard aggregates. "Completed today" counts actions
// in a terminal status whose last update falls on the current calendar day,
// so an action completed yesterday and untouched since does not count.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	totalPatients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.actions.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	var pending, inProgress int
	for status, n := range statusCounts {
		switch {
		case status == "Pending":
			pending += n
		case workflow.IsInProgress(status):
			inProgress += n
		}
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	completedToday, err := s.actions.CountCompletedSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	pendingByDept, err := s.actions.PendingByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	// Departments with an empty queue still get a zero tile.
	byDepartment := map[string]int{
		workflow.DepartmentDoctor:      0,
		workflow.DepartmentPharmacy:    0,
		workflow.DepartmentDiagnostics: 0,
		workflow.DepartmentNursing:     0,
	}
	for dept, n := range pendingByDept {
		byDepartment[dept] = n
	}

	recent, _, err := s.events.ListRecent(ctx, recentEventLimit, 0)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*timeline.Event{}
	}

	return &Stats{
		TotalPatients:       totalPatients,
		PendingActions:      pending,
		InProgressActions:   inProgress,
		CompletedToday:      completedToday,
		PendingByDepartment: byDepartment,
		RecentEvents:        recent,
	}, nil
}
