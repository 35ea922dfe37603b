package timeline

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careflow/careflow/internal/platform/auth"
	"github.com/careflow/careflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/timeline", h.ListRecent)
	api.GET("/patients/:id/timeline", h.ListByPatient)
	api.POST("/patients/:id/events", h.CreateEvent)
}

// manualEventTypes are the entries staff can add directly from the chart.
// Action flows write their own events; clients cannot forge those here.
var manualEventTypes = map[string]bool{
	EventNoteAdded:            true,
	EventVitalsRecorded:       true,
	EventPatientStatusChanged: true,
}

type createEventRequest struct {
	EventType   string  `json:"event_type"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (h *Handler) CreateEvent(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !manualEventTypes[req.EventType] {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event_type")
	}

	identity := auth.IdentityFromContext(c.Request().Context())
	event := &Event{
		PatientID:       patientID,
		EventType:       req.EventType,
		Title:           req.Title,
		Description:     req.Description,
		PerformedBy:     identity.Email,
		PerformedByRole: identity.Department,
	}

	if err := h.svc.Record(c.Request().Context(), event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, event)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListRecent(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRecent(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
