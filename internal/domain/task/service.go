package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
)

var validStatuses = map[string]bool{
	StatusOpen: true, StatusDone: true, StatusCanceled: true,
}

type Service struct {
	tasks    Repository
	patients patient.Repository
}

func NewService(tasks Repository, patients patient.Repository) *Service {
	return &Service{tasks: tasks, patients: patients}
}

func (s *Service) checkPatient(ctx context.Context, patientID *uuid.UUID, accountID uuid.UUID) error {
	if patientID == nil {
		return nil
	}
	if _, err := s.patients.GetByIDForAccount(ctx, *patientID, accountID); err != nil {
		return apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, t *Task) error {
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if t.Status == "" {
		t.Status = StatusOpen
	}
	if !validStatuses[t.Status] {
		return fmt.Errorf("invalid task status: %s", t.Status)
	}
	if err := s.checkPatient(ctx, t.PatientID, accountID); err != nil {
		return err
	}
	t.AccountID = accountID
	return s.tasks.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id, accountID uuid.UUID) (*Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.AccountID != accountID {
		return nil, fmt.Errorf("not found")
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Task, int, error) {
	return s.tasks.ListByAccount(ctx, accountID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID, accountID uuid.UUID, limit, offset int) ([]*Task, int, error) {
	if err := s.checkPatient(ctx, &patientID, accountID); err != nil {
		return nil, 0, err
	}
	return s.tasks.ListByPatient(ctx, patientID, limit, offset)
}

// Update applies the edit and keeps the completion timestamp consistent
// with the status: done stamps it, anything else clears it.
func (s *Service) Update(ctx context.Context, accountID uuid.UUID, t *Task) error {
	existing, err := s.Get(ctx, t.ID, accountID)
	if err != nil {
		return err
	}
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !validStatuses[t.Status] {
		return fmt.Errorf("invalid task status: %s", t.Status)
	}
	t.AccountID = existing.AccountID
	t.PatientID = existing.PatientID
	if t.Status == StatusDone {
		if t.CompletedAt == nil {
			now := time.Now()
			t.CompletedAt = &now
		}
	} else {
		t.CompletedAt = nil
	}
	return s.tasks.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	if _, err := s.Get(ctx, id, accountID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}
