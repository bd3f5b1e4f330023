package guidance

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, g *Guidance) error
	GetByID(ctx context.Context, id uuid.UUID) (*Guidance, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Guidance, int, error)
	ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Guidance, error)
	Update(ctx context.Context, g *Guidance) error
	Delete(ctx context.Context, id uuid.UUID) error
}
