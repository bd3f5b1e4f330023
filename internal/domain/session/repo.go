package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	CreateBatch(ctx context.Context, sessions []*Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Session, int, error)
	// ListByPatientBetween returns the patient's sessions with scheduled_at
	// in [from, to], regardless of status.
	ListByPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*Session, error)
	ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Session, error)
	Update(ctx context.Context, s *Session) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// CancelScheduledFrom moves every scheduled session for the patient with
	// scheduled_at >= from to canceled, stamping the reason and timestamp.
	// Returns the number of sessions canceled.
	CancelScheduledFrom(ctx context.Context, patientID uuid.UUID, from time.Time, reason string, canceledAt time.Time) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
