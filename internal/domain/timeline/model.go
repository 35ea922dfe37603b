package timeline

import (
	"time"

	"github.com/google/uuid"
)

// Event types recorded on a patient's timeline. Action flows emit the first
// three; the rest come from manual entries on the patient chart.
const (
	EventActionCreated        = "Action Created"
	EventStatusUpdate         = "Status Update"
	EventResultUploaded       = "Result Uploaded"
	EventNoteAdded            = "Note Added"
	EventVitalsRecorded       = "Vitals Recorded"
	EventPatientStatusChanged = "Patient Status Changed"
)

// Event maps to the timeline_events table. Events are append-only: written
// once, never mutated or deleted.
type Event struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	ActionID        *uuid.UUID `db:"action_id" json:"action_id,omitempty"`
	EventType       string     `db:"event_type" json:"event_type"`
	Title           string     `db:"title" json:"title"`
	Description     *string    `db:"description" json:"description,omitempty"`
	PerformedBy     string     `db:"performed_by" json:"performed_by"`
	PerformedByRole string     `db:"performed_by_role" json:"performed_by_role"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
