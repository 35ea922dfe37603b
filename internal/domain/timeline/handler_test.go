package timeline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	return h, e
}

func TestHandler_CreateEvent(t *testing.T) {
	h, e := newTestHandler()
	patientID := uuid.New()

	body := `{"event_type":"Note Added","title":"Night shift observations"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(patientID.String())

	if err := h.CreateEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var created Event
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.PatientID != patientID {
		t.Errorf("expected patient id from path, got %s", created.PatientID)
	}
}

func TestHandler_CreateEvent_RejectsActionEventTypes(t *testing.T) {
	h, e := newTestHandler()

	// Action flows write these; the manual endpoint must refuse them.
	for _, eventType := range []string{EventActionCreated, EventStatusUpdate, EventResultUploaded} {
		body := `{"event_type":"` + eventType + `","title":"forged"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(uuid.New().String())

		if err := h.CreateEvent(c); err == nil {
			t.Errorf("expected %q to be rejected", eventType)
		}
	}
}

func TestHandler_CreateEvent_InvalidPatientID(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.CreateEvent(c); err == nil {
		t.Error("expected error for invalid patient id")
	}
}

func TestHandler_ListByPatient(t *testing.T) {
	h, e := newTestHandler()
	patientID := uuid.New()
	h.svc.Record(nil, &Event{PatientID: patientID, EventType: EventNoteAdded, Title: "note"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(patientID.String())

	if err := h.ListByPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("expected total 1 in response: %s", rec.Body.String())
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler()
	api := e.Group("/api/v1")
	h.RegisterRoutes(api)

	expected := map[string]bool{
		"GET /api/v1/timeline":              false,
		"GET /api/v1/patients/:id/timeline": false,
		"POST /api/v1/patients/:id/events":  false,
	}
	for _, route := range e.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := expected[key]; ok {
			expected[key] = true
		}
	}
	for route, found := range expected {
		if !found {
			t.Errorf("expected route %s to be registered", route)
		}
	}
}
