package links

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, l *ExternalLink) error
	GetByID(ctx context.Context, id uuid.UUID) (*ExternalLink, error)
	ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*ExternalLink, error)
	Update(ctx context.Context, l *ExternalLink) error
	Delete(ctx context.Context, id uuid.UUID) error
}
