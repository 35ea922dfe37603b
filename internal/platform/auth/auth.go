package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	// UserEmailKey identifies the authenticated user in the request context.
	UserEmailKey contextKey = "user_email"
	// UserNameKey holds the user's display name.
	UserNameKey contextKey = "user_name"
	// UserDepartmentKey holds the department the user acts for.
	UserDepartmentKey contextKey = "user_department"
)

// DepartmentAdmin sees every panel and passes every department gate.
const DepartmentAdmin = "Admin"

// Claims are the JWT claims carried by a careflow session token. The subject
// is the user's email address.
type Claims struct {
	jwt.RegisteredClaims
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// Identity describes the authenticated caller as seen by handlers.
type Identity struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// EmailFromContext returns the authenticated user's email, or "" if the
// request is unauthenticated.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

// NameFromContext returns the authenticated user's display name.
func NameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UserNameKey).(string)
	return name
}

// DepartmentFromContext returns the department the user acts for.
func DepartmentFromContext(ctx context.Context) string {
	dept, _ := ctx.Value(UserDepartmentKey).(string)
	return dept
}

// IdentityFromContext assembles the caller's identity from the request context.
func IdentityFromContext(ctx context.Context) Identity {
	return Identity{
		Email:      EmailFromContext(ctx),
		FullName:   NameFromContext(ctx),
		Department: DepartmentFromContext(ctx),
	}
}
