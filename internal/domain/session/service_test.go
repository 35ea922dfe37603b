package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careflow/careflow/internal/domain/workflow"
	"github.com/careflow/careflow/internal/platform/auth"
)

// -- Mock Repository --

type mockUserRepo struct {
	store map[string]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: make(map[string]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	if _, ok := m.store[u.Email]; ok {
		return fmt.Errorf("duplicate email")
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.store[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.store[email]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.store[u.Email]; !ok {
		return fmt.Errorf("not found")
	}
	copied := *u
	m.store[u.Email] = &copied
	return nil
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var items []*User
	for _, u := range m.store {
		items = append(items, u)
	}
	return items, len(items), nil
}

func newTestService() (*Service, *mockUserRepo) {
	repo := newMockUserRepo()
	issuer := auth.NewTokenIssuer([]byte("session-test-signing-key"), time.Hour)
	return NewService(repo, issuer), repo
}

// -- Login Tests --

func TestLogin_SelfRegisters(t *testing.T) {
	svc, repo := newTestService()
	result, err := svc.Login(context.Background(), LoginInput{
		Email:      "Dr.Iyer@Careflow.Local",
		FullName:   "Dr. Iyer",
		Department: workflow.DepartmentDoctor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.User.Email != "dr.iyer@careflow.local" {
		t.Errorf("expected lowercased email, got %s", result.User.Email)
	}
	if _, ok := repo.store["dr.iyer@careflow.local"]; !ok {
		t.Error("expected user to be created")
	}
}

func TestLogin_DefaultsToDoctor(t *testing.T) {
	svc, _ := newTestService()
	result, err := svc.Login(context.Background(), LoginInput{Email: "new@careflow.local"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Department != workflow.DepartmentDoctor {
		t.Errorf("expected Doctor default, got %s", result.User.Department)
	}
}

func TestLogin_RejectsUnknownDepartment(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Login(context.Background(), LoginInput{
		Email:      "new@careflow.local",
		Department: "Radiology",
	})
	if err == nil {
		t.Error("expected error for unknown department")
	}
}

func TestLogin_RequiresEmail(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Login(context.Background(), LoginInput{}); err == nil {
		t.Error("expected error for blank email")
	}
}

func TestLogin_PasswordProtectedAccount(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:      "admin@careflow.local",
		FullName:   "Admin",
		Department: auth.DepartmentAdmin,
		Password:   "correct horse",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@careflow.local",
		Password: "wrong",
	}); err == nil {
		t.Error("expected error for wrong password")
	}

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@careflow.local",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Department != auth.DepartmentAdmin {
		t.Errorf("expected Admin, got %s", result.User.Department)
	}
}

func TestLogin_ExistingPasswordlessAccount(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Login(context.Background(), LoginInput{
		Email:      "nurse@careflow.local",
		Department: workflow.DepartmentNursing,
	}); err != nil {
		t.Fatalf("first login: %v", err)
	}

	// A second login must reuse the stored profile, not the submitted one.
	result, err := svc.Login(context.Background(), LoginInput{
		Email:      "nurse@careflow.local",
		Department: workflow.DepartmentPharmacy,
	})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if result.User.Department != workflow.DepartmentNursing {
		t.Errorf("expected stored Nursing department, got %s", result.User.Department)
	}
}

// -- Profile Tests --

func TestUpdateProfile_SwitchesDepartment(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Login(context.Background(), LoginInput{
		Email:      "switcher@careflow.local",
		Department: workflow.DepartmentDoctor,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	identity := auth.Identity{Email: "switcher@careflow.local", Department: workflow.DepartmentDoctor}
	result, err := svc.UpdateProfile(context.Background(), identity, UpdateProfileInput{
		Department: workflow.DepartmentNursing,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Department != workflow.DepartmentNursing {
		t.Errorf("expected Nursing, got %s", result.User.Department)
	}
	if result.Token == "" {
		t.Error("expected a reissued token carrying the new department")
	}
}

func TestUpdateProfile_RejectsUnknownDepartment(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Login(context.Background(), LoginInput{Email: "x@careflow.local"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := svc.UpdateProfile(context.Background(),
		auth.Identity{Email: "x@careflow.local"},
		UpdateProfileInput{Department: "Radiology"})
	if err == nil {
		t.Error("expected error for unknown department")
	}
}

// -- Admin Tests --

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	input := CreateUserInput{
		Email:      "dup@careflow.local",
		Department: workflow.DepartmentPharmacy,
	}
	if _, err := svc.CreateUser(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), input); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := newTestService()
	if _, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:      "secure@careflow.local",
		Department: workflow.DepartmentDiagnostics,
		Password:   "s3cret",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := repo.store["secure@careflow.local"]
	if u.PasswordHash == nil {
		t.Fatal("expected a stored password hash")
	}
	if *u.PasswordHash == "s3cret" {
		t.Error("password must not be stored in the clear")
	}
	if !auth.CheckPassword(*u.PasswordHash, "s3cret") {
		t.Error("expected hash to verify against the original password")
	}
}
