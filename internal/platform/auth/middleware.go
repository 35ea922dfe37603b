package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Middleware returns middleware that validates the Bearer token on every
// request and populates the request context with the caller's identity.
func Middleware(signingKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return signingKey, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			setIdentity(c, Identity{
				Email:      claims.Subject,
				FullName:   claims.FullName,
				Department: claims.Department,
			})

			return next(c)
		}
	}
}

// DevAuthMiddleware is a permissive middleware for development. Requests
// without credentials are treated as an Admin user, and the X-Dev-Email,
// X-Dev-Name, and X-Dev-Department headers let the client impersonate any
// role without a login round trip.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := Identity{
				Email:      "dev@careflow.local",
				FullName:   "Dev User",
				Department: DepartmentAdmin,
			}

			req := c.Request()
			if v := req.Header.Get("X-Dev-Email"); v != "" {
				identity.Email = v
			}
			if v := req.Header.Get("X-Dev-Name"); v != "" {
				identity.FullName = v
			}
			if v := req.Header.Get("X-Dev-Department"); v != "" {
				identity.Department = v
			}

			setIdentity(c, identity)
			return next(c)
		}
	}
}

// setIdentity stores the identity on both the echo context (for middleware
// that only sees echo, like the rate limiter and query cache) and the request
// context (for services and repositories).
func setIdentity(c echo.Context, identity Identity) {
	c.Set("user_email", identity.Email)

	ctx := c.Request().Context()
	ctx = context.WithValue(ctx, UserEmailKey, identity.Email)
	ctx = context.WithValue(ctx, UserNameKey, identity.FullName)
	ctx = context.WithValue(ctx, UserDepartmentKey, identity.Department)
	c.SetRequest(c.Request().WithContext(ctx))
}
