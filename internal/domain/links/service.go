package links

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
)

type Service struct {
	links    Repository
	patients patient.Repository
}

func NewService(links Repository, patients patient.Repository) *Service {
	return &Service{links: links, patients: patients}
}

func (s *Service) checkPatient(ctx context.Context, patientID, accountID uuid.UUID) error {
	if _, err := s.patients.GetByIDForAccount(ctx, patientID, accountID); err != nil {
		return apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}
	return nil
}

func validateLink(l *ExternalLink) error {
	if l.Label == "" {
		return fmt.Errorf("label is required")
	}
	u, err := url.Parse(l.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url must be absolute")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, l *ExternalLink) error {
	if err := validateLink(l); err != nil {
		return err
	}
	if err := s.checkPatient(ctx, l.PatientID, accountID); err != nil {
		return err
	}
	return s.links.Create(ctx, l)
}

func (s *Service) ListByPatient(ctx context.Context, patientID, accountID uuid.UUID) ([]*ExternalLink, error) {
	if err := s.checkPatient(ctx, patientID, accountID); err != nil {
		return nil, err
	}
	return s.links.ListAllByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, accountID uuid.UUID, l *ExternalLink) error {
	existing, err := s.links.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	if err := s.checkPatient(ctx, existing.PatientID, accountID); err != nil {
		return err
	}
	l.PatientID = existing.PatientID
	if err := validateLink(l); err != nil {
		return err
	}
	return s.links.Update(ctx, l)
}

func (s *Service) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	existing, err := s.links.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkPatient(ctx, existing.PatientID, accountID); err != nil {
		return err
	}
	return s.links.Delete(ctx, id)
}
