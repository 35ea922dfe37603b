package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/timeline"
	"github.com/careflow/careflow/internal/domain/workflow"
	"github.com/careflow/careflow/internal/platform/auth"
)

type Service struct {
	actions ActionRepository
	events  *timeline.Service
	logger  zerolog.Logger
}

func NewService(actions ActionRepository, events *timeline.Service, logger zerolog.Logger) *Service {
	return &Service{actions: actions, events: events, logger: logger}
}

// CreateActionInput carries the doctor's order form.
type CreateActionInput struct {
	PatientID   uuid.UUID    `json:"patient_id"`
	ActionType  string       `json:"action_type"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Priority    string       `json:"priority"`
	Medications []Medication `json:"medications"`
	TestType    *string      `json:"test_type"`
	ReferralTo  *string      `json:"referral_to"`
}

// CreateAction persists a new action and appends its creation event to the
// patient's timeline. The two writes are independent: if the event write
// fails after the action is stored, the action stands and the failure is
// only logged. Downstream panels key off the action record, not the event.
func (s *Service) CreateAction(ctx context.Context, input CreateActionInput, actor auth.Identity) (*ClinicalAction, error) {
	if input.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if !workflow.ValidActionType(input.ActionType) {
		return nil, fmt.Errorf("invalid action_type: %s", input.ActionType)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.Priority == "" {
		input.Priority = "Medium"
	}
	if !workflow.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("invalid priority: %s", input.Priority)
	}

	department := workflow.DepartmentForActionType(input.ActionType)

	a := &ClinicalAction{
		PatientID:          input.PatientID,
		ActionType:         input.ActionType,
		Title:              input.Title,
		Description:        input.Description,
		Priority:           input.Priority,
		Status:             "Pending",
		AssignedDepartment: department,
		OrderedBy:          actor.Email,
	}

	switch input.ActionType {
	case workflow.ActionPrescription:
		// Blank medication rows from the order form are dropped.
		for _, m := range input.Medications {
			if m.Name != "" {
				a.Medications = append(a.Medications, m)
			}
		}
	case workflow.ActionDiagnosticTest:
		a.TestType = input.TestType
	case workflow.ActionReferral:
		a.ReferralTo = input.ReferralTo
	}

	if err := s.actions.Create(ctx, a); err != nil {
		return nil, err
	}

	orderedBy := actor.FullName
	if orderedBy == "" {
		orderedBy = "Doctor"
	}
	description := fmt.Sprintf("Ordered by %s — assigned to %s", orderedBy, department)
	event := &timeline.Event{
		PatientID:       a.PatientID,
		ActionID:        &a.ID,
		EventType:       timeline.EventActionCreated,
		Title:           fmt.Sprintf("%s: %s", a.ActionType, a.Title),
		Description:     &description,
		PerformedBy:     actor.Email,
		PerformedByRole: workflow.DepartmentDoctor,
	}
	if err := s.events.Record(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Str("action_id", a.ID.String()).
			Msg("action stored but creation event failed")
	}

	return a, nil
}

// UpdateActionInput carries a department's worklist update.
type UpdateActionInput struct {
	Status          string  `json:"status"`
	DepartmentNotes string  `json:"department_notes"`
	TestResult      *string `json:"test_result"`
}

// UpdateAction overwrites the action's status and department fields and
// appends the corresponding timeline event. Only the assigned department
// (or Admin) may update an action. Last write wins: there is no version
// check between concurrent department updates. Same non-rollback caveat as
// CreateAction.
func (s *Service) UpdateAction(ctx context.Context, id uuid.UUID, input UpdateActionInput, actor auth.Identity) (*ClinicalAction, error) {
	a, err := s.actions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("action not found")
	}

	if actor.Department != auth.DepartmentAdmin && actor.Department != a.AssignedDepartment {
		return nil, fmt.Errorf("action is assigned to %s", a.AssignedDepartment)
	}

	if !workflow.ValidStatusForDepartment(a.AssignedDepartment, input.Status) {
		return nil, fmt.Errorf("invalid status for %s: %s", a.AssignedDepartment, input.Status)
	}

	a.Status = input.Status
	a.DepartmentNotes = &input.DepartmentNotes
	a.UpdatedBy = &actor.Email
	a.UpdatedByRole = &actor.Department

	resultSupplied := input.TestResult != nil && *input.TestResult != ""
	if actor.Department == workflow.DepartmentDiagnostics && resultSupplied {
		a.TestResult = input.TestResult
	}

	if err := s.actions.Update(ctx, a); err != nil {
		return nil, err
	}

	eventType := timeline.EventStatusUpdate
	if resultSupplied {
		eventType = timeline.EventResultUploaded
	}
	description := input.DepartmentNotes
	if description == "" {
		description = fmt.Sprintf("Status updated to %s by %s", input.Status, actor.Department)
	}
	event := &timeline.Event{
		PatientID:       a.PatientID,
		ActionID:        &a.ID,
		EventType:       eventType,
		Title:           fmt.Sprintf("%s → %s", a.ActionType, input.Status),
		Description:     &description,
		PerformedBy:     actor.Email,
		PerformedByRole: actor.Department,
	}
	if err := s.events.Record(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Str("action_id", a.ID.String()).
			Msg("action updated but timeline event failed")
	}

	return a, nil
}

func (s *Service) GetAction(ctx context.Context, id uuid.UUID) (*ClinicalAction, error) {
	return s.actions.GetByID(ctx, id)
}

func (s *Service) ListActions(ctx context.Context, limit, offset int) ([]*ClinicalAction, int, error) {
	return s.actions.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalAction, int, error) {
	return s.actions.ListByPatient(ctx, patientID, limit, offset)
}

// ListByDepartment returns a department's worklist, optionally filtered to
// one status tab.
func (s *Service) ListByDepartment(ctx context.Context, department, status string, limit, offset int) ([]*ClinicalAction, int, error) {
	if workflow.StatusesForDepartment(department) == nil {
		return nil, 0, fmt.Errorf("unknown department: %s", department)
	}
	if status != "" && !workflow.ValidStatusForDepartment(department, status) {
		return nil, 0, fmt.Errorf("invalid status for %s: %s", department, status)
	}
	return s.actions.ListByDepartment(ctx, department, status, limit, offset)
}

// DepartmentTabCounts returns the department's worklist totals keyed by
// status, zero-filled over the department's vocabulary so every tab renders.
func (s *Service) DepartmentTabCounts(ctx context.Context, department string) (map[string]int, error) {
	vocabulary := workflow.StatusesForDepartment(department)
	if vocabulary == nil {
		return nil, fmt.Errorf("unknown department: %s", department)
	}
	counts, err := s.actions.StatusCountsByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	tabs := make(map[string]int, len(vocabulary))
	for _, status := range vocabulary {
		tabs[status] = counts[status]
	}
	return tabs, nil
}

// PatientSummary aggregates a patient's action statuses for the chart
// header and tab badges.
func (s *Service) PatientSummary(ctx context.Context, patientID uuid.UUID) (workflow.Summary, error) {
	statuses, err := s.actions.StatusesByPatient(ctx, patientID)
	if err != nil {
		return workflow.Summary{}, err
	}
	return workflow.Summarize(statuses), nil
}
