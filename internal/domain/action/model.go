package action

import (
	"time"

	"github.com/google/uuid"
)

// Medication is one row of a prescription's medication list.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// ClinicalAction maps to the clinical_actions table: one unit of ordered
// clinical work. AssignedDepartment is derived from ActionType at creation
// and never changes afterwards.
type ClinicalAction struct {
	ID                 uuid.UUID    `db:"id" json:"id"`
	PatientID          uuid.UUID    `db:"patient_id" json:"patient_id"`
	ActionType         string       `db:"action_type" json:"action_type"`
	Title              string       `db:"title" json:"title"`
	Description        *string      `db:"description" json:"description,omitempty"`
	Priority           string       `db:"priority" json:"priority"`
	Status             string       `db:"status" json:"status"`
	AssignedDepartment string       `db:"assigned_department" json:"assigned_department"`
	OrderedBy          string       `db:"ordered_by" json:"ordered_by"`
	UpdatedBy          *string      `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedByRole      *string      `db:"updated_by_role" json:"updated_by_role,omitempty"`
	Medications        []Medication `db:"medications" json:"medications,omitempty"`
	TestType           *string      `db:"test_type" json:"test_type,omitempty"`
	ReferralTo         *string      `db:"referral_to" json:"referral_to,omitempty"`
	TestResult         *string      `db:"test_result" json:"test_result,omitempty"`
	DepartmentNotes    *string      `db:"department_notes" json:"department_notes,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}
