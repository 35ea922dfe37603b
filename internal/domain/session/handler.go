package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/platform/auth"
	"github.com/careflow/careflow/pkg/pagination"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterPublicRoutes mounts the unauthenticated session endpoints.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/auth/login", h.Login)
}

// RegisterRoutes mounts the authenticated session endpoints.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/logout", h.Logout)
	g.GET("/me", h.Me)
	g.PATCH("/me", h.UpdateProfile)

	admin := auth.RequireDepartment()
	g.POST("/users", h.CreateUser, admin)
	g.GET("/users", h.ListUsers, admin)
}

func (h *Handler) Login(c echo.Context) error {
	var input LoginInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := h.svc.Login(c.Request().Context(), input)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Logout leaves an audit line and nothing else: sessions are stateless
// bearer tokens and the client discards its copy.
func (h *Handler) Logout(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	h.logger.Info().
		Str("email", identity.Email).
		Str("department", identity.Department).
		Msg("user logged out")
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	u, err := h.svc.Me(c.Request().Context(), identity)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var input UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	result, err := h.svc.UpdateProfile(c.Request().Context(), identity, input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var input CreateUserInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.CreateUser(c.Request().Context(), input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	params := pagination.FromContext(c)
	items, total, err := h.svc.ListUsers(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list users")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, params.Limit, params.Offset))
}
