package patient

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockPatientRepo struct {
	store map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{store: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.store[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) GetByPatientID(_ context.Context, patientID string) (*Patient, error) {
	for _, p := range m.store {
		if p.PatientID == patientID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.store[p.ID] = p
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		r = append(r, p)
	}
	return r, len(r), nil
}

func (m *mockPatientRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		if p.Status == status {
			r = append(r, p)
		}
	}
	return r, len(r), nil
}

func (m *mockPatientRepo) Search(_ context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		if strings.Contains(strings.ToLower(p.FullName), strings.ToLower(query)) {
			r = append(r, p)
		}
	}
	return r, len(r), nil
}

func (m *mockPatientRepo) Count(_ context.Context) (int, error) {
	return len(m.store), nil
}

func newTestService() *Service {
	return NewService(newMockPatientRepo())
}

// -- Service Tests --

func TestRegisterPatient(t *testing.T) {
	svc := newTestService()
	p := &Patient{FullName: "Ravi Sharma"}

	if err := svc.RegisterPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if p.Status != "Admitted" {
		t.Errorf("expected default status Admitted, got %s", p.Status)
	}
	if !strings.HasPrefix(p.PatientID, "P-") {
		t.Errorf("expected generated chart number, got %s", p.PatientID)
	}
}

func TestRegisterPatient_RequiresName(t *testing.T) {
	svc := newTestService()
	if err := svc.RegisterPatient(context.Background(), &Patient{FullName: "  "}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestRegisterPatient_InvalidStatus(t *testing.T) {
	svc := newTestService()
	err := svc.RegisterPatient(context.Background(), &Patient{FullName: "X", Status: "Resting"})
	if err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestRegisterPatient_InvalidAge(t *testing.T) {
	svc := newTestService()
	age := -1
	err := svc.RegisterPatient(context.Background(), &Patient{FullName: "X", Age: &age})
	if err == nil {
		t.Error("expected error for negative age")
	}
}

func TestRegisterPatient_KeepsProvidedChartNumber(t *testing.T) {
	svc := newTestService()
	p := &Patient{FullName: "Asha Patel", PatientID: "P-IMPORTED1"}
	if err := svc.RegisterPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PatientID != "P-IMPORTED1" {
		t.Errorf("expected provided chart number to survive, got %s", p.PatientID)
	}
}

func TestUpdatePatient_Status(t *testing.T) {
	svc := newTestService()
	p := &Patient{FullName: "Ravi Sharma"}
	svc.RegisterPatient(context.Background(), p)

	p.Status = "Discharged"
	if err := svc.UpdatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetPatient(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "Discharged" {
		t.Errorf("expected Discharged, got %s", got.Status)
	}
}

func TestListByStatus_RejectsUnknown(t *testing.T) {
	svc := newTestService()
	if _, _, err := svc.ListByStatus(context.Background(), "Sleeping", 20, 0); err == nil {
		t.Error("expected error for unknown status filter")
	}
}
