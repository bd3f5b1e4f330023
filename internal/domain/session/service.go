package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
	"github.com/clinicdesk/clinicdesk/pkg/wallclock"
)

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusCompleted: true, StatusCanceled: true,
	StatusCanceledLate: true, StatusUndocumented: true,
}

type Service struct {
	sessions      Repository
	patients      patient.Repository
	clock         *wallclock.Clock
	lookaheadDays int
}

func NewService(sessions Repository, patients patient.Repository, clock *wallclock.Clock, lookaheadDays int) *Service {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	return &Service{sessions: sessions, patients: patients, clock: clock, lookaheadDays: lookaheadDays}
}

func (s *Service) ownedPatient(ctx context.Context, patientID, accountID uuid.UUID) (*patient.Patient, error) {
	p, err := s.patients.GetByIDForAccount(ctx, patientID, accountID)
	if err != nil {
		return nil, apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, accountID uuid.UUID, sess *Session) error {
	if _, err := s.ownedPatient(ctx, sess.PatientID, accountID); err != nil {
		return err
	}
	if sess.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if sess.Status == "" {
		sess.Status = StatusScheduled
	}
	if !validStatuses[sess.Status] {
		return fmt.Errorf("invalid session status: %s", sess.Status)
	}
	return s.sessions.Create(ctx, sess)
}

func (s *Service) Get(ctx context.Context, id, accountID uuid.UUID) (*Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedPatient(ctx, sess.PatientID, accountID); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID, accountID uuid.UUID, limit, offset int) ([]*Session, int, error) {
	if _, err := s.ownedPatient(ctx, patientID, accountID); err != nil {
		return nil, 0, err
	}
	return s.sessions.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Update(ctx context.Context, accountID uuid.UUID, sess *Session) error {
	existing, err := s.Get(ctx, sess.ID, accountID)
	if err != nil {
		return err
	}
	sess.PatientID = existing.PatientID
	if !validStatuses[sess.Status] {
		return fmt.Errorf("invalid session status: %s", sess.Status)
	}
	return s.sessions.Update(ctx, sess)
}

func (s *Service) UpdateStatus(ctx context.Context, id, accountID uuid.UUID, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid session status: %s", status)
	}
	if _, err := s.Get(ctx, id, accountID); err != nil {
		return err
	}
	return s.sessions.UpdateStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	if _, err := s.Get(ctx, id, accountID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

// GenerateOutput reports what GenerateForPatient persisted.
type GenerateOutput struct {
	Sessions []*Session `json:"sessions"`
	Summary  string     `json:"summary"`
}

// GenerateForPatient proposes the patient's upcoming recurring instants and
// persists each as a scheduled session. A patient without a fixed schedule
// yields an empty result, not an error.
func (s *Service) GenerateForPatient(ctx context.Context, patientID, accountID uuid.UUID, now time.Time) (*GenerateOutput, error) {
	p, err := s.ownedPatient(ctx, patientID, accountID)
	if err != nil {
		return nil, err
	}

	existing, err := s.sessions.ListByPatientBetween(ctx, patientID, now, now.AddDate(0, 0, s.lookaheadDays))
	if err != nil {
		return nil, err
	}

	result, err := GenerateRecurring(s.clock, p.FixedSessionDay, p.FixedSessionTime, existing, now, s.lookaheadDays)
	if err != nil {
		return nil, err
	}

	created := make([]*Session, 0, len(result.Instants))
	for _, instant := range result.Instants {
		created = append(created, &Session{
			PatientID:   patientID,
			ScheduledAt: instant,
			Status:      StatusScheduled,
		})
	}
	if len(created) > 0 {
		if err := s.sessions.CreateBatch(ctx, created); err != nil {
			return nil, err
		}
	}
	return &GenerateOutput{Sessions: created, Summary: result.Summary}, nil
}

// CheckMerge validates the candidate date/time and runs the merge detector
// against the patient's schedule and existing sessions.
func (s *Service) CheckMerge(ctx context.Context, patientID, accountID uuid.UUID, date, clockTime string) (*MergeCheck, error) {
	if strings.TrimSpace(date) == "" {
		return nil, apperror.BadRequest(apperror.CodeMissingDate, "date is required")
	}
	if strings.TrimSpace(clockTime) == "" {
		return nil, apperror.BadRequest(apperror.CodeMissingDate, "time is required")
	}
	if _, err := wallclock.ParseDateKey(date); err != nil {
		return nil, apperror.BadRequest(apperror.CodeInvalidDate, err.Error())
	}
	hour, minute, err := wallclock.ParseClockTime(clockTime)
	if err != nil {
		return nil, apperror.BadRequest(apperror.CodeInvalidDate, err.Error())
	}

	p, err := s.ownedPatient(ctx, patientID, accountID)
	if err != nil {
		return nil, err
	}
	existing, err := s.sessions.ListAllByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	check, err := DetectMerge(s.clock, date, hour, minute, p.FixedSessionDay, p.FixedSessionTime, existing)
	if err != nil {
		return nil, apperror.BadRequest(apperror.CodeInvalidDate, err.Error())
	}
	return &check, nil
}
