package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careflow/careflow/internal/domain/workflow"
	"github.com/careflow/careflow/internal/platform/auth"
)

type Service struct {
	users  UserRepository
	issuer *auth.TokenIssuer
}

func NewService(users UserRepository, issuer *auth.TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// validDepartment accepts the four clinical departments plus Admin.
func validDepartment(department string) bool {
	if department == auth.DepartmentAdmin {
		return true
	}
	switch department {
	case workflow.DepartmentDoctor, workflow.DepartmentPharmacy,
		workflow.DepartmentDiagnostics, workflow.DepartmentNursing:
		return true
	}
	return false
}

type LoginInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// Login authenticates by email and issues a session token. An unknown email
// self-registers with the submitted name and department, so a fresh install
// is usable without seeding. Accounts that carry a password hash must also
// present the matching password.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if input.Department == "" {
			input.Department = workflow.DepartmentDoctor
		}
		if !validDepartment(input.Department) {
			return nil, fmt.Errorf("invalid department: %s", input.Department)
		}
		u = &User{
			Email:      email,
			FullName:   strings.TrimSpace(input.FullName),
			Department: input.Department,
		}
		if createErr := s.users.Create(ctx, u); createErr != nil {
			return nil, createErr
		}
	} else if u.PasswordHash != nil {
		if !auth.CheckPassword(*u.PasswordHash, input.Password) {
			return nil, fmt.Errorf("invalid credentials")
		}
	}

	token, expiresAt, err := s.issuer.Issue(auth.Identity{
		Email:      u.Email,
		FullName:   u.FullName,
		Department: u.Department,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// Me returns the profile behind an authenticated identity.
func (s *Service) Me(ctx context.Context, identity auth.Identity) (*User, error) {
	return s.users.GetByEmail(ctx, identity.Email)
}

type UpdateProfileInput struct {
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// UpdateProfile lets a user change their display name and switch the
// department they act for. A fresh token is issued since the department
// claim changed.
func (s *Service) UpdateProfile(ctx context.Context, identity auth.Identity, input UpdateProfileInput) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	if name := strings.TrimSpace(input.FullName); name != "" {
		u.FullName = name
	}
	if input.Department != "" {
		if !validDepartment(input.Department) {
			return nil, fmt.Errorf("invalid department: %s", input.Department)
		}
		u.Department = input.Department
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issuer.Issue(auth.Identity{
		Email:      u.Email,
		FullName:   u.FullName,
		Department: u.Department,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

type CreateUserInput struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Password   string `json:"password"`
}

// CreateUser provisions an account, optionally with a password. Admin only;
// enforced at the route.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !validDepartment(input.Department) {
		return nil, fmt.Errorf("invalid department: %s", input.Department)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %s", email)
	}

	u := &User{
		Email:      email,
		FullName:   strings.TrimSpace(input.FullName),
		Department: input.Department,
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = &hash
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}
