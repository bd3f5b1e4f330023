package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/session"
	"github.com/clinicdesk/clinicdesk/internal/domain/task"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
)

// -- Mock Repositories --

type mockPatientRepo struct {
	patients map[uuid.UUID]*patient.Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) GetByIDForAccount(_ context.Context, id, accountID uuid.UUID) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok || p.AccountID != accountID {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]*patient.Patient, int, error) {
	return nil, 0, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *patient.Patient) error { return nil }

func (m *mockPatientRepo) UpdateSchedule(_ context.Context, id uuid.UUID, day *int, clockTime *string) error {
	return nil
}

func (m *mockPatientRepo) SetArchivedAt(_ context.Context, id uuid.UUID, at *time.Time) error {
	p, ok := m.patients[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	p.ArchivedAt = at
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

type mockSessionRepo struct {
	sessions map[uuid.UUID]*session.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[uuid.UUID]*session.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, s *session.Session) error {
	s.ID = uuid.New()
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepo) CreateBatch(ctx context.Context, sessions []*session.Session) error {
	for _, s := range sessions {
		if err := m.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockSessionRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*session.Session, int, error) {
	return nil, 0, nil
}

func (m *mockSessionRepo) ListByPatientBetween(_ context.Context, patientID uuid.UUID, from, to time.Time) ([]*session.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) ListAllByPatient(_ context.Context, patientID uuid.UUID) ([]*session.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) Update(_ context.Context, s *session.Session) error { return nil }

func (m *mockSessionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	return nil
}

func (m *mockSessionRepo) CancelScheduledFrom(_ context.Context, patientID uuid.UUID, from time.Time, reason string, canceledAt time.Time) (int, error) {
	count := 0
	for _, s := range m.sessions {
		if s.PatientID == patientID && s.Status == session.StatusScheduled && !s.ScheduledAt.Before(from) {
			s.Status = session.StatusCanceled
			r := reason
			s.CancellationReason = &r
			at := canceledAt
			s.CanceledAt = &at
			count++
		}
	}
	return count, nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

type mockTaskRepo struct {
	tasks      map[uuid.UUID]*task.Task
	failCancel bool
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[uuid.UUID]*task.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, t *task.Task) error {
	t.ID = uuid.New()
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return t, nil
}

func (m *mockTaskRepo) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]*task.Task, int, error) {
	return nil, 0, nil
}

func (m *mockTaskRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*task.Task, int, error) {
	return nil, 0, nil
}

func (m *mockTaskRepo) ListAllByPatient(_ context.Context, patientID uuid.UUID) ([]*task.Task, error) {
	return nil, nil
}

func (m *mockTaskRepo) Update(_ context.Context, t *task.Task) error { return nil }

func (m *mockTaskRepo) CancelOpenByPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	if m.failCancel {
		return 0, fmt.Errorf("storage failure")
	}
	count := 0
	for _, t := range m.tasks {
		if t.PatientID != nil && *t.PatientID == patientID && t.Status == task.StatusOpen {
			t.Status = task.StatusCanceled
			t.CompletedAt = nil
			count++
		}
	}
	return count, nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

type mockEventRepo struct {
	events []*Event
}

func (m *mockEventRepo) Append(_ context.Context, e *Event) error {
	e.ID = uuid.New()
	m.events = append(m.events, e)
	return nil
}

func (m *mockEventRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	var result []*Event
	for _, e := range m.events {
		if e.PatientID == patientID {
			result = append(result, e)
		}
	}
	return result, len(result), nil
}

// mockTxRunner snapshots the mock stores before running fn and restores
// them when fn fails, emulating a storage rollback.
type mockTxRunner struct {
	patients *mockPatientRepo
	sessions *mockSessionRepo
	tasks    *mockTaskRepo
	events   *mockEventRepo
}

func (m *mockTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	savedPatients := make(map[uuid.UUID]*patient.Patient, len(m.patients.patients))
	for k, v := range m.patients.patients {
		cp := *v
		savedPatients[k] = &cp
	}
	savedSessions := make(map[uuid.UUID]*session.Session, len(m.sessions.sessions))
	for k, v := range m.sessions.sessions {
		cp := *v
		savedSessions[k] = &cp
	}
	savedTasks := make(map[uuid.UUID]*task.Task, len(m.tasks.tasks))
	for k, v := range m.tasks.tasks {
		cp := *v
		savedTasks[k] = &cp
	}
	savedEvents := append([]*Event(nil), m.events.events...)

	if err := fn(ctx); err != nil {
		m.patients.patients = savedPatients
		m.sessions.sessions = savedSessions
		m.tasks.tasks = savedTasks
		m.events.events = savedEvents
		return err
	}
	return nil
}

// -- Fixtures --

type fixture struct {
	svc      *Service
	patients *mockPatientRepo
	sessions *mockSessionRepo
	tasks    *mockTaskRepo
	events   *mockEventRepo
}

func newFixture() *fixture {
	patients := newMockPatientRepo()
	sessions := newMockSessionRepo()
	tasks := newMockTaskRepo()
	events := &mockEventRepo{}
	tx := &mockTxRunner{patients: patients, sessions: sessions, tasks: tasks, events: events}
	return &fixture{
		svc:      NewService(events, patients, sessions, tasks, tx),
		patients: patients,
		sessions: sessions,
		tasks:    tasks,
		events:   events,
	}
}

func (f *fixture) seedPatient(t *testing.T, accountID uuid.UUID) *patient.Patient {
	t.Helper()
	p := &patient.Patient{AccountID: accountID, FullName: "Ana Souza"}
	if err := f.patients.Create(context.Background(), p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p
}

func (f *fixture) seedSession(t *testing.T, patientID uuid.UUID, at time.Time, status string) *session.Session {
	t.Helper()
	s := &session.Session{PatientID: patientID, ScheduledAt: at, Status: status}
	if err := f.sessions.Create(context.Background(), s); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return s
}

func (f *fixture) seedTask(t *testing.T, accountID, patientID uuid.UUID, status string) *task.Task {
	t.Helper()
	tk := &task.Task{AccountID: accountID, PatientID: &patientID, Title: "follow up", Status: status}
	if err := f.tasks.Create(context.Background(), tk); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return tk
}

// -- Tests --

func TestSetInactive_CancelsFutureSessions(t *testing.T) {
	f := newFixture()
	accountID := uuid.New()
	p := f.seedPatient(t, accountID)

	now := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)
	future1 := f.seedSession(t, p.ID, now.AddDate(0, 0, 2), session.StatusScheduled)
	future2 := f.seedSession(t, p.ID, now.AddDate(0, 0, 9), session.StatusScheduled)
	past := f.seedSession(t, p.ID, now.AddDate(0, 0, -7), session.StatusCompleted)

	result, err := f.svc.SetInactive(context.Background(), SetInactiveParams{
		PatientID:            p.ID,
		ActorID:              accountID,
		InactiveAt:           now,
		CancelFutureSessions: true,
		CloseOpenTasks:       false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != patient.StatusInactive {
		t.Errorf("expected status inactive, got %s", result.Status)
	}
	if result.WasAlreadyInactive {
		t.Error("patient was active before the call")
	}
	if result.CanceledSessionsCount != 2 {
		t.Errorf("expected 2 canceled sessions, got %d", result.CanceledSessionsCount)
	}
	if result.ClosedTasksCount != 0 {
		t.Errorf("expected 0 closed tasks, got %d", result.ClosedTasksCount)
	}

	for _, s := range []*session.Session{future1, future2} {
		got := f.sessions.sessions[s.ID]
		if got.Status != session.StatusCanceled {
			t.Errorf("expected session %s canceled, got %s", s.ID, got.Status)
		}
		if got.CancellationReason == nil || *got.CancellationReason != CancellationReasonInactive {
			t.Errorf("expected fixed cancellation reason, got %v", got.CancellationReason)
		}
	}
	if f.sessions.sessions[past.ID].Status != session.StatusCompleted {
		t.Error("past session should not be touched")
	}

	if p.ArchivedAt == nil || !p.ArchivedAt.Equal(now) {
		t.Errorf("expected archived_at = %v, got %v", now, p.ArchivedAt)
	}

	if len(f.events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.events.events))
	}
	e := f.events.events[0]
	if e.EventType != EventSetInactive {
		t.Errorf("expected SET_INACTIVE event, got %s", e.EventType)
	}
	var meta setInactiveMetadata
	if err := json.Unmarshal(e.Metadata, &meta); err != nil {
		t.Fatalf("unmarshal metadata: %v", err)
	}
	if meta.CanceledSessionsCount != 2 || meta.ClosedTasksCount != 0 {
		t.Errorf("unexpected metadata counts: %+v", meta)
	}
	if !meta.CancelFutureSessions || meta.CloseOpenTasks {
		t.Errorf("unexpected metadata flags: %+v", meta)
	}
}

func TestSetInactive_ClosesOpenTasks(t *testing.T) {
	f := newFixture()
	accountID := uuid.New()
	p := f.seedPatient(t, accountID)

	open := f.seedTask(t, accountID, p.ID, task.StatusOpen)
	done := f.seedTask(t, accountID, p.ID, task.StatusDone)

	result, err := f.svc.SetInactive(context.Background(), SetInactiveParams{
		PatientID:      p.ID,
		ActorID:        accountID,
		InactiveAt:     time.Now(),
		CloseOpenTasks: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ClosedTasksCount != 1 {
		t.Errorf("expected 1 closed task, got %d", result.ClosedTasksCount)
	}
	if f.tasks.tasks[open.ID].Status != task.StatusCanceled {
		t.Error("open task should be canceled")
	}
	if f.tasks.tasks[done.ID].Status != task.StatusDone {
		t.Error("done task should not be touched")
	}
}

func TestSetInactive_RepeatReappliesCascade(t *testing.T) {
	f := newFixture()
	accountID := uuid.New()
	p := f.seedPatient(t, accountID)

	now := time.Now()
	first, err := f.svc.SetInactive(context.Background(), SetInactiveParams{
		PatientID: p.ID, ActorID: accountID, InactiveAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.WasAlreadyInactive {
		t.Error("first call: patient was active")
	}

	// New session scheduled after the patient went inactive; re-applying
	// with the cascade flag picks it up.
	f.seedSession(t, p.ID, now.AddDate(0, 0, 3), session.StatusScheduled)

	second, err := f.svc.SetInactive(context.Background(), SetInactiveParams{
		PatientID: p.ID, ActorID: accountID, InactiveAt: now,
		CancelFutureSessions: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.WasAlreadyInactive {
		t.Error("second call: patient was already inactive")
	}
	if second.CanceledSessionsCount != 1 {
		t.Errorf("expected cascade to cancel 1 session, got %d", second.CanceledSessionsCount)
	}
	if len(f.events.events) != 2 {
		t.Errorf("expected an event per call, got %d", len(f.events.events))
	}
}

func TestSetInactive_WrongAccount(t *testing.T) {
	f := newFixture()
	p := f.seedPatient(t, uuid.New())

	_, err := f.svc.SetInactive(context.Background(), SetInactiveParams{
		PatientID: p.ID, ActorID: uuid.New(), InactiveAt: time.Now(),
	})
	appErr, ok := apperror.As(err)
	if !ok || appErr.Code != apperror.CodePatientNotFound {
		t.Fatalf("expected PATIENT_NOT_FOUND, got %v", err)
	}
}

func TestSetInactive_RollsBackOnTaskFailure(t *testing.T) {
	f := newFixture()
	accountID := uuid.New()
	p := f.seedPatient(t, accountID)

	now := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)
	future := f.seedSession(t, p.ID, now.AddDate(0, 0, 2), session.StatusScheduled)
	f.tasks.failCancel = true

	_, err := f.svc.SetInactive(context.Background(), SetInactiveParams{
		PatientID:            p.ID,
		ActorID:              accountID,
		InactiveAt:           now,
		CancelFutureSessions: true,
		CloseOpenTasks:       true,
	})
	if err == nil {
		t.Fatal("expected storage error to propagate")
	}
	if _, ok := apperror.As(err); ok {
		t.Error("storage errors must propagate unwrapped, not as domain errors")
	}

	if got := f.sessions.sessions[future.ID]; got.Status != session.StatusScheduled {
		t.Errorf("expected session cancellation rolled back, got status %s", got.Status)
	}
	if got := f.patients.patients[p.ID]; got.ArchivedAt != nil {
		t.Error("expected patient archive rolled back")
	}
	if len(f.events.events) != 0 {
		t.Errorf("expected no events after rollback, got %d", len(f.events.events))
	}
}

func TestReactivate_MissingReason(t *testing.T) {
	f := newFixture()
	accountID := uuid.New()
	p := f.seedPatient(t, accountID)

	inactiveAt := time.Now()
	p.ArchivedAt = &inactiveAt

	for _, reason := range []string{"", "   "} {
		_, err := f.svc.Reactivate(context.Background(), p.ID, accountID, time.Now(), reason)
		appErr, ok := apperror.As(err)
		if !ok || appErr.Code != apperror.CodeMissingReason {
			t.Fatalf("reason %q: expected MISSING_REASON, got %v", reason, err)
		}
	}

	if p.ArchivedAt == nil {
		t.Error("patient must stay inactive after failed reactivation")
	}
	if len(f.events.events) != 0 {
		t.Errorf("expected zero writes, got %d events", len(f.events.events))
	}
}

func TestReactivate_Success(t *testing.T) {
	f := newFixture()
	accountID := uuid.New()
	p := f.seedPatient(t, accountID)

	inactiveAt := time.Now().Add(-24 * time.Hour)
	p.ArchivedAt = &inactiveAt
	canceled := f.seedSession(t, p.ID, time.Now().AddDate(0, 0, 5), session.StatusCanceled)

	result, err := f.svc.Reactivate(context.Background(), p.ID, accountID, time.Now(), "returning from leave")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != patient.StatusActive {
		t.Errorf("expected status active, got %s", result.Status)
	}
	if result.WasAlreadyActive {
		t.Error("patient was inactive before the call")
	}
	if p.ArchivedAt != nil {
		t.Error("expected archived_at cleared")
	}

	// Previously canceled records are not restored.
	if f.sessions.sessions[canceled.ID].Status != session.StatusCanceled {
		t.Error("canceled session must stay canceled after reactivation")
	}

	if len(f.events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.events.events))
	}
	e := f.events.events[0]
	if e.EventType != EventReactivated {
		t.Errorf("expected REACTIVATED event, got %s", e.EventType)
	}
	if e.Reason == nil || *e.Reason != "returning from leave" {
		t.Errorf("expected reason on event, got %v", e.Reason)
	}
}
