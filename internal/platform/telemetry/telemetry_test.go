package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHistogram_Observe(t *testing.T) {
	h := newHistogram([]float64{0.1, 0.5, 1.0})

	h.Observe(0.05)
	h.Observe(0.3)
	h.Observe(0.7)
	h.Observe(5.0) // beyond all boundaries

	if h.Count() != 4 {
		t.Errorf("expected count 4, got %d", h.Count())
	}
	if h.Sum() != 6.05 {
		t.Errorf("expected sum 6.05, got %g", h.Sum())
	}

	cum := h.cumulativeBuckets()
	expected := []int64{1, 2, 3}
	for i, want := range expected {
		if cum[i] != want {
			t.Errorf("bucket[%d]: expected %d, got %d", i, want, cum[i])
		}
	}
}

func TestProvider_OperationCounter(t *testing.T) {
	p := NewProvider(Config{})

	p.OperationCounter("action", "create")
	p.OperationCounter("action", "create")
	p.OperationCounter("patient", "list")

	if got := p.GetCounter("action", "create"); got != 2 {
		t.Errorf("expected action/create count 2, got %d", got)
	}
	if got := p.GetCounter("patient", "list"); got != 1 {
		t.Errorf("expected patient/list count 1, got %d", got)
	}
	if got := p.GetCounter("patient", "create"); got != 0 {
		t.Errorf("expected unknown counter to be 0, got %d", got)
	}
}

func TestProvider_Gauges(t *testing.T) {
	p := NewProvider(Config{})

	p.SetGauge("careflow.actions.pending", 7)
	if got := p.GetGauge("careflow.actions.pending"); got != 7 {
		t.Errorf("expected gauge 7, got %d", got)
	}

	p.SetGauge("careflow.actions.pending", 3)
	if got := p.GetGauge("careflow.actions.pending"); got != 3 {
		t.Errorf("expected gauge overwrite to 3, got %d", got)
	}
}

func TestMetricsMiddleware_RecordsDuration(t *testing.T) {
	p := NewProvider(Config{})

	e := echo.New()
	e.Use(p.MetricsMiddleware())
	e.GET("/api/v1/patients", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	key := LabelsKey(http.MethodGet, "/api/v1/patients", "200")
	h := p.GetLabeledDuration(key)
	if h == nil {
		t.Fatal("expected labeled duration histogram to exist")
	}
	if h.Count() != 1 {
		t.Errorf("expected 1 observation, got %d", h.Count())
	}

	if got := p.GetGauge("http.server.active_requests"); got != 0 {
		t.Errorf("expected active requests back to 0, got %d", got)
	}
}

func TestMetricsMiddleware_CountsMutations(t *testing.T) {
	p := NewProvider(Config{})

	e := echo.New()
	e.Use(p.MetricsMiddleware())
	e.POST("/api/v1/actions", func(c echo.Context) error {
		return c.String(http.StatusCreated, "ok")
	})
	e.PUT("/api/v1/actions/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/api/v1/actions", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.POST("/api/v1/patients", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "nope")
	})

	for _, r := range []struct{ method, target string }{
		{http.MethodPost, "/api/v1/actions"},
		{http.MethodPut, "/api/v1/actions/" + "a1"},
		{http.MethodGet, "/api/v1/actions"},
		{http.MethodPost, "/api/v1/patients"},
	} {
		req := httptest.NewRequest(r.method, r.target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	if got := p.GetCounter("actions", "create"); got != 1 {
		t.Errorf("expected 1 action create, got %d", got)
	}
	if got := p.GetCounter("actions", "update"); got != 1 {
		t.Errorf("expected 1 action update, got %d", got)
	}
	// Reads and failed mutations are not operations.
	if got := p.GetCounter("actions", ""); got != 0 {
		t.Errorf("expected no counter for reads, got %d", got)
	}
	if got := p.GetCounter("patients", "create"); got != 0 {
		t.Errorf("expected rejected create to go uncounted, got %d", got)
	}
}

func TestDomainForRoute(t *testing.T) {
	cases := map[string]string{
		"/api/v1/actions/:id":          "actions",
		"/api/v1/patients/:id/summary": "patients",
		"/api/v1/auth/login":           "auth",
		"/metrics":                     "metrics",
		"/":                            "",
	}
	for route, want := range cases {
		if got := domainForRoute(route); got != want {
			t.Errorf("%s: expected %q, got %q", route, want, got)
		}
	}
}

func TestPrometheusHandler_Output(t *testing.T) {
	p := NewProvider(Config{ServiceName: "careflow-server", ServiceVersion: "1.2.3"})
	p.OperationCounter("action", "update")
	p.SetGauge("careflow.patients.total", 42)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := p.PrometheusHandler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`careflow_build_info{service="careflow-server",version="1.2.3"`,
		`careflow_operation_count{domain="action",operation="update"} 1`,
		"careflow_patients_total 42",
		"# TYPE http_server_request_duration_seconds histogram",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}
