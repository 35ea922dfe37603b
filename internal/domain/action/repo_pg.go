package action

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type actionRepoPG struct{ pool *pgxpool.Pool }

func NewActionRepoPG(pool *pgxpool.Pool) ActionRepository {
	return &actionRepoPG{pool: pool}
}

const actionCols = `id, patient_id, action_type, title, description, priority, status,
	assigned_department, ordered_by, updated_by, updated_by_role,
	medications, test_type, referral_to, test_result, department_notes,
	created_at, updated_at`

func (r *actionRepoPG) scanAction(row pgx.Row) (*ClinicalAction, error) {
	var a ClinicalAction
	var meds []byte
	err := row.Scan(&a.ID, &a.PatientID, &a.ActionType, &a.Title, &a.Description, &a.Priority, &a.Status,
		&a.AssignedDepartment, &a.OrderedBy, &a.UpdatedBy, &a.UpdatedByRole,
		&meds, &a.TestType, &a.ReferralTo, &a.TestResult, &a.DepartmentNotes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(meds) > 0 {
		if err := json.Unmarshal(meds, &a.Medications); err != nil {
			return nil, fmt.Errorf("decode medications: %w", err)
		}
	}
	return &a, nil
}

func medicationsJSON(a *ClinicalAction) (any, error) {
	if a.Medications == nil {
		return nil, nil
	}
	return json.Marshal(a.Medications)
}

func (r *actionRepoPG) Create(ctx context.Context, a *ClinicalAction) error {
	a.ID = uuid.New()
	meds, err := medicationsJSON(a)
	if err != nil {
		return fmt.Errorf("encode medications: %w", err)
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO clinical_actions (id, patient_id, action_type, title, description, priority, status,
			assigned_department, ordered_by, medications, test_type, referral_to)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.ActionType, a.Title, a.Description, a.Priority, a.Status,
		a.AssignedDepartment, a.OrderedBy, meds, a.TestType, a.ReferralTo).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *actionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalAction, error) {
	return r.scanAction(r.pool.QueryRow(ctx, `SELECT `+actionCols+` FROM clinical_actions WHERE id = $1`, id))
}

func (r *actionRepoPG) Update(ctx context.Context, a *ClinicalAction) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE clinical_actions SET status=$2, department_notes=$3, test_result=$4,
			updated_by=$5, updated_by_role=$6, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Status, a.DepartmentNotes, a.TestResult, a.UpdatedBy, a.UpdatedByRole)
	return err
}

func (r *actionRepoPG) List(ctx context.Context, limit, offset int) ([]*ClinicalAction, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_actions`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+actionCols+` FROM clinical_actions ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *actionRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalAction, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_actions WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+actionCols+` FROM clinical_actions WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *actionRepoPG) ListByDepartment(ctx context.Context, department, status string, limit, offset int) ([]*ClinicalAction, int, error) {
	if status != "" {
		var total int
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_actions WHERE assigned_department = $1 AND status = $2`, department, status).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err := r.pool.Query(ctx, `SELECT `+actionCols+` FROM clinical_actions WHERE assigned_department = $1 AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`, department, status, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		defer rows.Close()
		return r.collect(rows, total)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinical_actions WHERE assigned_department = $1`, department).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+actionCols+` FROM clinical_actions WHERE assigned_department = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, department, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *actionRepoPG) StatusesByPatient(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT status FROM clinical_actions WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var statuses []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *actionRepoPG) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM clinical_actions GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *actionRepoPG) StatusCountsByDepartment(ctx context.Context, department string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM clinical_actions WHERE assigned_department = $1 GROUP BY status`, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *actionRepoPG) PendingByDepartment(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT assigned_department, COUNT(*) FROM clinical_actions WHERE status = 'Pending' GROUP BY assigned_department`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var dept string
		var n int
		if err := rows.Scan(&dept, &n); err != nil {
			return nil, err
		}
		counts[dept] = n
	}
	return counts, rows.Err()
}

func (r *actionRepoPG) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM clinical_actions
		WHERE status IN ('Completed', 'Dispensed', 'Administered') AND updated_at >= $1`, since).Scan(&total)
	return total, err
}

func (r *actionRepoPG) collect(rows pgx.Rows, total int) ([]*ClinicalAction, int, error) {
	var items []*ClinicalAction
	for rows.Next() {
		a, err := r.scanAction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
