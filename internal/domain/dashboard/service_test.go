package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careflow/careflow/internal/domain/action"
	"github.com/careflow/careflow/internal/domain/patient"
	"github.com/careflow/careflow/internal/domain/timeline"
	"github.com/careflow/careflow/internal/domain/workflow"
)

// Stats only touches the aggregate queries, so the stubs embed the repo
// interfaces and implement just those.

type stubPatientRepo struct {
	patient.PatientRepository
	count int
}

func (s *stubPatientRepo) Count(_ context.Context) (int, error) {
	return s.count, nil
}

type stubActionRepo struct {
	action.ActionRepository
	statusCounts   map[string]int
	pendingByDept  map[string]int
	completedSince int
}

func (s *stubActionRepo) StatusCounts(_ context.Context) (map[string]int, error) {
	return s.statusCounts, nil
}

func (s *stubActionRepo) PendingByDepartment(_ context.Context) (map[string]int, error) {
	return s.pendingByDept, nil
}

func (s *stubActionRepo) CountCompletedSince(_ context.Context, _ time.Time) (int, error) {
	return s.completedSince, nil
}

type stubEventRepo struct {
	timeline.EventRepository
	events []*timeline.Event
}

func (s *stubEventRepo) ListRecent(_ context.Context, limit, offset int) ([]*timeline.Event, int, error) {
	if len(s.events) > limit {
		return s.events[:limit], len(s.events), nil
	}
	return s.events, len(s.events), nil
}

func newTestService() *Service {
	return NewService(
		&stubPatientRepo{count: 12},
		&stubActionRepo{
			statusCounts: map[string]int{
				"Pending":     5,
				"Processing":  2,
				"Monitoring":  1,
				"Dispensed":   3,
				"Completed":   4,
			},
			pendingByDept: map[string]int{
				workflow.DepartmentPharmacy: 3,
				workflow.DepartmentNursing:  2,
			},
			completedSince: 2,
		},
		&stubEventRepo{events: []*timeline.Event{
			{ID: uuid.New(), PatientID: uuid.New(), EventType: timeline.EventStatusUpdate, Title: "Prescription → Dispensed"},
		}},
	)
}

func TestStats(t *testing.T) {
	svc := newTestService()
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalPatients != 12 {
		t.Errorf("expected 12 patients, got %d", stats.TotalPatients)
	}
	if stats.PendingActions != 5 {
		t.Errorf("expected 5 pending, got %d", stats.PendingActions)
	}
	if stats.InProgressActions != 3 {
		t.Errorf("expected 3 in progress, got %d", stats.InProgressActions)
	}
	if stats.CompletedToday != 2 {
		t.Errorf("expected 2 completed today, got %d", stats.CompletedToday)
	}
	if len(stats.RecentEvents) != 1 {
		t.Errorf("expected 1 recent event, got %d", len(stats.RecentEvents))
	}
}

func TestStats_ZeroFillsDepartments(t *testing.T) {
	svc := newTestService()
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]int{
		workflow.DepartmentDoctor:      0,
		workflow.DepartmentPharmacy:    3,
		workflow.DepartmentDiagnostics: 0,
		workflow.DepartmentNursing:     2,
	}
	for dept, n := range expected {
		if stats.PendingByDepartment[dept] != n {
			t.Errorf("%s: expected %d pending, got %d", dept, n, stats.PendingByDepartment[dept])
		}
	}
	if len(stats.PendingByDepartment) != 4 {
		t.Errorf("expected exactly 4 departments, got %d", len(stats.PendingByDepartment))
	}
}

func TestStats_EmptyStores(t *testing.T) {
	svc := NewService(&stubPatientRepo{}, &stubActionRepo{}, &stubEventRepo{})
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalPatients != 0 || stats.PendingActions != 0 || stats.InProgressActions != 0 {
		t.Errorf("expected zeroed stats: %+v", stats)
	}
	if stats.RecentEvents == nil || len(stats.RecentEvents) != 0 {
		t.Error("expected empty, non-nil recent events")
	}
}

func TestHandler_GetStats(t *testing.T) {
	h := NewHandler(newTestService())
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetStats(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.TotalPatients != 12 {
		t.Errorf("expected 12 patients, got %d", stats.TotalPatients)
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h := NewHandler(newTestService())
	e := echo.New()
	api := e.Group("/api/v1")
	h.RegisterRoutes(api)

	found := false
	for _, route := range e.Routes() {
		if route.Method == http.MethodGet && route.Path == "/api/v1/dashboard/stats" {
			found = true
		}
	}
	if !found {
		t.Error("expected GET /api/v1/dashboard/stats to be registered")
	}
}
