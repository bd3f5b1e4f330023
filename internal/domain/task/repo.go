package task

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Task, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Task, int, error)
	ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	// CancelOpenByPatient moves every open task for the patient to canceled,
	// clearing any completion timestamp. Returns the number of tasks closed.
	CancelOpenByPatient(ctx context.Context, patientID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
