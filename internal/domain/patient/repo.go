package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// GetByIDForAccount returns the patient only when it is owned by the
	// given account; a missing or foreign patient is indistinguishable.
	GetByIDForAccount(ctx context.Context, id, accountID uuid.UUID) (*Patient, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	UpdateSchedule(ctx context.Context, id uuid.UUID, day *int, clockTime *string) error
	SetArchivedAt(ctx context.Context, id uuid.UUID, at *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}
