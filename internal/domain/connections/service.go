package connections

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
	"github.com/clinicdesk/clinicdesk/internal/domain/guidance"
	"github.com/clinicdesk/clinicdesk/internal/domain/links"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/research"
	"github.com/clinicdesk/clinicdesk/internal/domain/session"
	"github.com/clinicdesk/clinicdesk/internal/domain/task"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
	"github.com/clinicdesk/clinicdesk/pkg/wallclock"
)

// Service assembles a patient's full related-record set and projects it
// through Build.
type Service struct {
	patients  patient.Repository
	sessions  session.Repository
	tasks     task.Repository
	guidances guidance.Repository
	research  research.Repository
	receipts  billing.Repository
	links     links.Repository
	clock     *wallclock.Clock
	now       func() time.Time
}

func NewService(
	patients patient.Repository,
	sessions session.Repository,
	tasks task.Repository,
	guidances guidance.Repository,
	researchRepo research.Repository,
	receipts billing.Repository,
	linksRepo links.Repository,
	clock *wallclock.Clock,
) *Service {
	return &Service{
		patients:  patients,
		sessions:  sessions,
		tasks:     tasks,
		guidances: guidances,
		research:  researchRepo,
		receipts:  receipts,
		links:     linksRepo,
		clock:     clock,
		now:       time.Now,
	}
}

func (s *Service) GraphForPatient(ctx context.Context, patientID, accountID uuid.UUID) (*Graph, error) {
	p, err := s.patients.GetByIDForAccount(ctx, patientID, accountID)
	if err != nil {
		return nil, apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}

	sessions, err := s.sessions.ListAllByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListAllByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	guidances, err := s.guidances.ListAllByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	notes, err := s.research.ListAllNotesByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	documents, err := s.research.ListAllDocumentsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	receipts, err := s.receipts.ListAllByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	externalLinks, err := s.links.ListAllByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	graph := Build(s.clock, BuildInput{
		Patient:   p,
		Sessions:  sessions,
		Tasks:     tasks,
		Guidances: guidances,
		Notes:     notes,
		Documents: documents,
		Receipts:  receipts,
		Links:     externalLinks,
		Now:       s.now(),
	})
	return &graph, nil
}
