package action

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careflow/careflow/internal/domain/workflow"
	"github.com/careflow/careflow/internal/platform/auth"
	"github.com/careflow/careflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	// Only doctors order; only the three fulfilling departments update.
	g.POST("/actions", h.CreateAction, auth.RequireDepartment(workflow.DepartmentDoctor))
	g.GET("/actions", h.ListActions)
	g.GET("/actions/:id", h.GetAction)
	g.PUT("/actions/:id", h.UpdateAction, auth.RequireDepartment(
		workflow.DepartmentPharmacy, workflow.DepartmentDiagnostics, workflow.DepartmentNursing))
	g.GET("/patients/:id/summary", h.PatientSummary)
}

func (h *Handler) CreateAction(c echo.Context) error {
	var input CreateActionInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.CreateAction(c.Request().Context(), input, auth.IdentityFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

// actionView decorates a single action with its derived workflow position
// and status badge for the detail panel.
type actionView struct {
	*ClinicalAction
	WorkflowStep int            `json:"workflow_step"`
	StepLabel    string         `json:"step_label"`
	Badge        workflow.Badge `json:"badge"`
}

func newActionView(a *ClinicalAction) actionView {
	step := workflow.Step(a.Status, a.AssignedDepartment)
	return actionView{
		ClinicalAction: a,
		WorkflowStep:   step,
		StepLabel:      workflow.StepLabel(step),
		Badge:          workflow.BadgeForStatus(a.Status),
	}
}

func (h *Handler) GetAction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid action id")
	}
	a, err := h.svc.GetAction(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "action not found")
	}
	return c.JSON(http.StatusOK, newActionView(a))
}

// worklistResponse is a department worklist page plus the status tab counts
// the panel header renders.
type worklistResponse struct {
	*pagination.Response
	StatusCounts map[string]int `json:"status_counts"`
}

// ListActions serves the shared action list. ?patient_id narrows to one
// chart, ?department (with optional ?status) serves a department worklist.
func (h *Handler) ListActions(c echo.Context) error {
	params := pagination.FromContext(c)

	if raw := c.QueryParam("patient_id"); raw != "" {
		patientID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, params.Limit, params.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to list actions")
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, params.Limit, params.Offset))
	}

	if department := c.QueryParam("department"); department != "" {
		items, total, err := h.svc.ListByDepartment(c.Request().Context(), department, c.QueryParam("status"), params.Limit, params.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		tabs, err := h.svc.DepartmentTabCounts(c.Request().Context(), department)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to count department actions")
		}
		return c.JSON(http.StatusOK, worklistResponse{
			Response:     pagination.NewResponse(items, total, params.Limit, params.Offset),
			StatusCounts: tabs,
		})
	}

	items, total, err := h.svc.ListActions(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list actions")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, params.Limit, params.Offset))
}

func (h *Handler) UpdateAction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid action id")
	}
	var input UpdateActionInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.UpdateAction(c.Request().Context(), id, input, auth.IdentityFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) PatientSummary(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	summary, err := h.svc.PatientSummary(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to summarize actions")
	}
	return c.JSON(http.StatusOK, summary)
}
