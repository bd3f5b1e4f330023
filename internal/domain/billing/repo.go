package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create stores the receipt together with its allocations.
	Create(ctx context.Context, r *Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Receipt, int, error)
	ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Receipt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
