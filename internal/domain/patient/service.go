package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
	"github.com/clinicdesk/clinicdesk/pkg/wallclock"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func validateSchedule(day *int, clockTime *string) error {
	if day != nil && (*day < 0 || *day > 6) {
		return fmt.Errorf("fixed_session_day must be between 0 (Sunday) and 6, got %d", *day)
	}
	if clockTime != nil && *clockTime != "" {
		if _, _, err := wallclock.ParseClockTime(*clockTime); err != nil {
			return fmt.Errorf("fixed_session_time must be 24-hour HH:MM: %w", err)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.AccountID == uuid.Nil {
		return fmt.Errorf("account_id is required")
	}
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if err := validateSchedule(p.FixedSessionDay, p.FixedSessionTime); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

// Get resolves a patient owned by the acting account. Missing and foreign
// patients both surface as PATIENT_NOT_FOUND so ownership is never leaked.
func (s *Service) Get(ctx context.Context, id, accountID uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByIDForAccount(ctx, id, accountID)
	if err != nil {
		return nil, apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	return s.patients.ListByAccount(ctx, accountID, limit, offset)
}

func (s *Service) Update(ctx context.Context, accountID uuid.UUID, p *Patient) error {
	if _, err := s.Get(ctx, p.ID, accountID); err != nil {
		return err
	}
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return s.patients.Update(ctx, p)
}

// UpdateSchedule sets or clears the weekly recurring slot. Both halves may
// be cleared together; setting one half alone is allowed at storage level
// but generation only runs once both are present.
func (s *Service) UpdateSchedule(ctx context.Context, id, accountID uuid.UUID, day *int, clockTime *string) (*Patient, error) {
	if _, err := s.Get(ctx, id, accountID); err != nil {
		return nil, err
	}
	if err := validateSchedule(day, clockTime); err != nil {
		return nil, err
	}
	if err := s.patients.UpdateSchedule(ctx, id, day, clockTime); err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	if _, err := s.Get(ctx, id, accountID); err != nil {
		return err
	}
	return s.patients.Delete(ctx, id)
}
