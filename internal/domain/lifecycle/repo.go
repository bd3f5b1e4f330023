package lifecycle

import (
	"context"

	"github.com/google/uuid"
)

// Repository is append-only: events are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, e *Event) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error)
}
