package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireDepartment returns middleware that checks the caller acts for at
// least one of the given departments. Admin passes every gate.
func RequireDepartment(departments ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			dept := DepartmentFromContext(c.Request().Context())
			if dept == DepartmentAdmin {
				return next(c)
			}
			for _, required := range departments {
				if dept == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required department: %s", strings.Join(departments, " or ")))
		}
	}
}
