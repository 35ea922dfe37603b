package timeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	events EventRepository
}

func NewService(events EventRepository) *Service {
	return &Service{events: events}
}

var validEventTypes = map[string]bool{
	EventActionCreated:        true,
	EventStatusUpdate:         true,
	EventResultUploaded:       true,
	EventNoteAdded:            true,
	EventVitalsRecorded:       true,
	EventPatientStatusChanged: true,
}

// Record appends an event to a patient's timeline.
func (s *Service) Record(ctx context.Context, e *Event) error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if !validEventTypes[e.EventType] {
		return fmt.Errorf("invalid event_type: %s", e.EventType)
	}
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.events.Create(ctx, e)
}

func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.events.GetByID(ctx, id)
}

// ListByPatient returns a patient's timeline, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	return s.events.ListByPatient(ctx, patientID, limit, offset)
}

// ListRecent returns the newest events across all patients, for the
// dashboard's activity feed.
func (s *Service) ListRecent(ctx context.Context, limit, offset int) ([]*Event, int, error) {
	return s.events.ListRecent(ctx, limit, offset)
}
