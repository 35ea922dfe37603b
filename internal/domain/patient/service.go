package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/careflow/careflow/internal/domain/workflow"
)

type Service struct {
	patients PatientRepository
}

func NewService(patients PatientRepository) *Service {
	return &Service{patients: patients}
}

// RegisterPatient creates a patient record. Status defaults to Admitted and
// a chart number is generated when the caller does not supply one.
func (s *Service) RegisterPatient(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("full_name is required")
	}
	if p.Status == "" {
		p.Status = "Admitted"
	}
	if !workflow.ValidPatientStatus(p.Status) {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return fmt.Errorf("invalid age: %d", *p.Age)
	}
	if p.PatientID == "" {
		p.PatientID = generateChartNumber()
	}
	return s.patients.Create(ctx, p)
}

// generateChartNumber produces a human-readable chart number, e.g. P-4F2A9C31.
func generateChartNumber() string {
	return "P-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetByChartNumber(ctx context.Context, patientID string) (*Patient, error) {
	return s.patients.GetByPatientID(ctx, patientID)
}

// UpdatePatient overwrites a patient's mutable fields. The chart number is
// fixed at registration.
func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("full_name is required")
	}
	if !workflow.ValidPatientStatus(p.Status) {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return fmt.Errorf("invalid age: %d", *p.Age)
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	if !workflow.ValidPatientStatus(status) {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.patients.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) SearchPatients(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, query, limit, offset)
}
