package lifecycle

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/session"
	"github.com/clinicdesk/clinicdesk/internal/domain/task"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

// CancellationReasonInactive is stamped on every session canceled by a
// set-inactive cascade.
const CancellationReasonInactive = "patient set to inactive"

type Service struct {
	events   Repository
	patients patient.Repository
	sessions session.Repository
	tasks    task.Repository
	tx       db.TxRunner
}

func NewService(events Repository, patients patient.Repository, sessions session.Repository, tasks task.Repository, tx db.TxRunner) *Service {
	return &Service{events: events, patients: patients, sessions: sessions, tasks: tasks, tx: tx}
}

type SetInactiveParams struct {
	PatientID            uuid.UUID
	ActorID              uuid.UUID
	InactiveAt           time.Time
	Reason               *string
	CancelFutureSessions bool
	CloseOpenTasks       bool
}

type SetInactiveResult struct {
	PatientID             uuid.UUID `json:"patient_id"`
	Status                string    `json:"status"`
	WasAlreadyInactive    bool      `json:"was_already_inactive"`
	CanceledSessionsCount int       `json:"canceled_sessions_count"`
	ClosedTasksCount      int       `json:"closed_tasks_count"`
}

type setInactiveMetadata struct {
	CancelFutureSessions  bool `json:"cancel_future_sessions"`
	CloseOpenTasks        bool `json:"close_open_tasks"`
	CanceledSessionsCount int  `json:"canceled_sessions_count"`
	ClosedTasksCount      int  `json:"closed_tasks_count"`
}

// SetInactive archives the patient and, per the flags, cancels future
// scheduled sessions and closes open tasks, all in one transaction with an
// audit event. Calling it on an already-inactive patient is not blocked:
// the cascades and the event run again, so callers can re-apply with
// different flags.
func (s *Service) SetInactive(ctx context.Context, p SetInactiveParams) (*SetInactiveResult, error) {
	pat, err := s.patients.GetByIDForAccount(ctx, p.PatientID, p.ActorID)
	if err != nil {
		return nil, apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}

	result := &SetInactiveResult{
		PatientID:          p.PatientID,
		Status:             patient.StatusInactive,
		WasAlreadyInactive: pat.ArchivedAt != nil,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if p.CancelFutureSessions {
			count, err := s.sessions.CancelScheduledFrom(ctx, p.PatientID, p.InactiveAt, CancellationReasonInactive, p.InactiveAt)
			if err != nil {
				return err
			}
			result.CanceledSessionsCount = count
		}
		if p.CloseOpenTasks {
			count, err := s.tasks.CancelOpenByPatient(ctx, p.PatientID)
			if err != nil {
				return err
			}
			result.ClosedTasksCount = count
		}

		inactiveAt := p.InactiveAt
		if err := s.patients.SetArchivedAt(ctx, p.PatientID, &inactiveAt); err != nil {
			return err
		}

		meta, err := json.Marshal(setInactiveMetadata{
			CancelFutureSessions:  p.CancelFutureSessions,
			CloseOpenTasks:        p.CloseOpenTasks,
			CanceledSessionsCount: result.CanceledSessionsCount,
			ClosedTasksCount:      result.ClosedTasksCount,
		})
		if err != nil {
			return err
		}
		return s.events.Append(ctx, &Event{
			PatientID:  p.PatientID,
			ActorID:    p.ActorID,
			EventType:  EventSetInactive,
			OccurredAt: p.InactiveAt,
			Reason:     p.Reason,
			Metadata:   meta,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type ReactivateResult struct {
	PatientID        uuid.UUID `json:"patient_id"`
	Status           string    `json:"status"`
	WasAlreadyActive bool      `json:"was_already_active"`
}

// Reactivate clears the patient's archived state. The reason is mandatory
// and is checked before any write. Sessions and tasks canceled by an
// earlier SetInactive stay canceled; restoring them is a manual action.
func (s *Service) Reactivate(ctx context.Context, patientID, actorID uuid.UUID, reactivatedAt time.Time, reason string) (*ReactivateResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperror.BadRequest(apperror.CodeMissingReason, "a reason is required to reactivate a patient")
	}

	pat, err := s.patients.GetByIDForAccount(ctx, patientID, actorID)
	if err != nil {
		return nil, apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}

	result := &ReactivateResult{
		PatientID:        patientID,
		Status:           patient.StatusActive,
		WasAlreadyActive: pat.ArchivedAt == nil,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.patients.SetArchivedAt(ctx, patientID, nil); err != nil {
			return err
		}
		return s.events.Append(ctx, &Event{
			PatientID:  patientID,
			ActorID:    actorID,
			EventType:  EventReactivated,
			OccurredAt: reactivatedAt,
			Reason:     &reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) ListEvents(ctx context.Context, patientID, actorID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	if _, err := s.patients.GetByIDForAccount(ctx, patientID, actorID); err != nil {
		return nil, 0, apperror.NotFound(apperror.CodePatientNotFound, "patient not found")
	}
	return s.events.ListByPatient(ctx, patientID, limit, offset)
}
