package research

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
)

type Service struct {
	research Repository
	patients patient.Repository
}

func NewService(research Repository, patients patient.Repository) *Service {
	return &Service{research: research, patients: patients}
}

func (s *Service) checkPatient(ctx context.Context, patientID, accountID uuid.UUID) error {
	if _, err := s.patients.GetByIDForAccount(ctx, patientID, accountID); err != nil {
		return apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}
	return nil
}

// checkCitations verifies every cited document belongs to the same patient
// as the note.
func (s *Service) checkCitations(ctx context.Context, n *Note) error {
	for _, docID := range n.DocumentIDs {
		doc, err := s.research.GetDocument(ctx, docID)
		if err != nil {
			return fmt.Errorf("cited document %s not found", docID)
		}
		if doc.PatientID != n.PatientID {
			return fmt.Errorf("cited document %s belongs to another patient", docID)
		}
	}
	return nil
}

func (s *Service) CreateNote(ctx context.Context, accountID uuid.UUID, n *Note) error {
	if n.Title == "" {
		return fmt.Errorf("title is required")
	}
	if err := s.checkPatient(ctx, n.PatientID, accountID); err != nil {
		return err
	}
	if err := s.checkCitations(ctx, n); err != nil {
		return err
	}
	return s.research.CreateNote(ctx, n)
}

func (s *Service) GetNote(ctx context.Context, id, accountID uuid.UUID) (*Note, error) {
	n, err := s.research.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPatient(ctx, n.PatientID, accountID); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListNotesByPatient(ctx context.Context, patientID, accountID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	if err := s.checkPatient(ctx, patientID, accountID); err != nil {
		return nil, 0, err
	}
	return s.research.ListNotesByPatient(ctx, patientID, limit, offset)
}

func (s *Service) UpdateNote(ctx context.Context, accountID uuid.UUID, n *Note) error {
	existing, err := s.GetNote(ctx, n.ID, accountID)
	if err != nil {
		return err
	}
	n.PatientID = existing.PatientID
	if n.Title == "" {
		return fmt.Errorf("title is required")
	}
	if err := s.checkCitations(ctx, n); err != nil {
		return err
	}
	return s.research.UpdateNote(ctx, n)
}

func (s *Service) DeleteNote(ctx context.Context, id, accountID uuid.UUID) error {
	if _, err := s.GetNote(ctx, id, accountID); err != nil {
		return err
	}
	return s.research.DeleteNote(ctx, id)
}

func (s *Service) CreateDocument(ctx context.Context, accountID uuid.UUID, d *Document) error {
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	if err := s.checkPatient(ctx, d.PatientID, accountID); err != nil {
		return err
	}
	return s.research.CreateDocument(ctx, d)
}

func (s *Service) GetDocument(ctx context.Context, id, accountID uuid.UUID) (*Document, error) {
	d, err := s.research.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPatient(ctx, d.PatientID, accountID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDocumentsByPatient(ctx context.Context, patientID, accountID uuid.UUID, limit, offset int) ([]*Document, int, error) {
	if err := s.checkPatient(ctx, patientID, accountID); err != nil {
		return nil, 0, err
	}
	return s.research.ListDocumentsByPatient(ctx, patientID, limit, offset)
}

func (s *Service) UpdateDocument(ctx context.Context, accountID uuid.UUID, d *Document) error {
	existing, err := s.GetDocument(ctx, d.ID, accountID)
	if err != nil {
		return err
	}
	d.PatientID = existing.PatientID
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.research.UpdateDocument(ctx, d)
}

func (s *Service) DeleteDocument(ctx context.Context, id, accountID uuid.UUID) error {
	if _, err := s.GetDocument(ctx, id, accountID); err != nil {
		return err
	}
	return s.research.DeleteDocument(ctx, id)
}
