package action

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ActionRepository interface {
	Create(ctx context.Context, a *ClinicalAction) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalAction, error)
	Update(ctx context.Context, a *ClinicalAction) error
	List(ctx context.Context, limit, offset int) ([]*ClinicalAction, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalAction, int, error)
	ListByDepartment(ctx context.Context, department, status string, limit, offset int) ([]*ClinicalAction, int, error)
	StatusesByPatient(ctx context.Context, patientID uuid.UUID) ([]string, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
	StatusCountsByDepartment(ctx context.Context, department string) (map[string]int, error)
	PendingByDepartment(ctx context.Context) (map[string]int, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int, error)
}
