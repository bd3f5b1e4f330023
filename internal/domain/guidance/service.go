package guidance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
)

var validStatuses = map[string]bool{
	StatusActive: true, StatusCompleted: true,
}

type Service struct {
	guidances Repository
	patients  patient.Repository
}

func NewService(guidances Repository, patients patient.Repository) *Service {
	return &Service{guidances: guidances, patients: patients}
}

func (s *Service) checkPatient(ctx context.Context, patientID, accountID uuid.UUID) error {
	if _, err := s.patients.GetByIDForAccount(ctx, patientID, accountID); err != nil {
		return apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, g *Guidance) error {
	if g.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if g.Status == "" {
		g.Status = StatusActive
	}
	if !validStatuses[g.Status] {
		return fmt.Errorf("invalid guidance status: %s", g.Status)
	}
	if err := s.checkPatient(ctx, g.PatientID, accountID); err != nil {
		return err
	}
	return s.guidances.Create(ctx, g)
}

func (s *Service) Get(ctx context.Context, id, accountID uuid.UUID) (*Guidance, error) {
	g, err := s.guidances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPatient(ctx, g.PatientID, accountID); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID, accountID uuid.UUID, limit, offset int) ([]*Guidance, int, error) {
	if err := s.checkPatient(ctx, patientID, accountID); err != nil {
		return nil, 0, err
	}
	return s.guidances.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Update(ctx context.Context, accountID uuid.UUID, g *Guidance) error {
	existing, err := s.Get(ctx, g.ID, accountID)
	if err != nil {
		return err
	}
	g.PatientID = existing.PatientID
	if g.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if !validStatuses[g.Status] {
		return fmt.Errorf("invalid guidance status: %s", g.Status)
	}
	return s.guidances.Update(ctx, g)
}

func (s *Service) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	if _, err := s.Get(ctx, id, accountID); err != nil {
		return err
	}
	return s.guidances.Delete(ctx, id)
}
