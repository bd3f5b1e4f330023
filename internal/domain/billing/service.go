package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/session"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
)

type Service struct {
	receipts Repository
	patients patient.Repository
	sessions session.Repository
}

func NewService(receipts Repository, patients patient.Repository, sessions session.Repository) *Service {
	return &Service{receipts: receipts, patients: patients, sessions: sessions}
}

func (s *Service) checkPatient(ctx context.Context, patientID, accountID uuid.UUID) error {
	if _, err := s.patients.GetByIDForAccount(ctx, patientID, accountID); err != nil {
		return apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, rec *Receipt) error {
	if rec.AmountCents <= 0 {
		return fmt.Errorf("amount_cents must be positive")
	}
	if rec.IssuedAt.IsZero() {
		return fmt.Errorf("issued_at is required")
	}
	if err := s.checkPatient(ctx, rec.PatientID, accountID); err != nil {
		return err
	}

	var allocated int64
	for _, a := range rec.Allocations {
		if a.AmountCents <= 0 {
			return fmt.Errorf("allocation amount must be positive")
		}
		sess, err := s.sessions.GetByID(ctx, a.SessionID)
		if err != nil {
			return fmt.Errorf("allocated session %s not found", a.SessionID)
		}
		if sess.PatientID != rec.PatientID {
			return fmt.Errorf("allocated session %s belongs to another patient", a.SessionID)
		}
		allocated += a.AmountCents
	}
	if allocated > rec.AmountCents {
		return fmt.Errorf("allocations (%d) exceed receipt amount (%d)", allocated, rec.AmountCents)
	}

	return s.receipts.Create(ctx, rec)
}

func (s *Service) Get(ctx context.Context, id, accountID uuid.UUID) (*Receipt, error) {
	rec, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPatient(ctx, rec.PatientID, accountID); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID, accountID uuid.UUID, limit, offset int) ([]*Receipt, int, error) {
	if err := s.checkPatient(ctx, patientID, accountID); err != nil {
		return nil, 0, err
	}
	return s.receipts.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	if _, err := s.Get(ctx, id, accountID); err != nil {
		return err
	}
	return s.receipts.Delete(ctx, id)
}
