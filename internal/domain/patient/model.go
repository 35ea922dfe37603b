package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. PatientID is the human-readable chart
// number shown on wristbands and panels; ID is the database key.
type Patient struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       string     `db:"patient_id" json:"patient_id"`
	FullName        string     `db:"full_name" json:"full_name"`
	Age             *int       `db:"age" json:"age,omitempty"`
	Gender          *string    `db:"gender" json:"gender,omitempty"`
	BloodGroup      *string    `db:"blood_group" json:"blood_group,omitempty"`
	Diagnosis       *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Status          string     `db:"status" json:"status"`
	RoomNumber      *string    `db:"room_number" json:"room_number,omitempty"`
	AttendingDoctor *string    `db:"attending_doctor" json:"attending_doctor,omitempty"`
	AdmissionDate   *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
