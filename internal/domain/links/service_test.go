package links

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
)

type mockRepo struct {
	links map[uuid.UUID]*ExternalLink
}

func newMockRepo() *mockRepo {
	return &mockRepo{links: make(map[uuid.UUID]*ExternalLink)}
}

func (m *mockRepo) Create(_ context.Context, l *ExternalLink) error {
	l.ID = uuid.New()
	m.links[l.ID] = l
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*ExternalLink, error) {
	l, ok := m.links[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return l, nil
}

func (m *mockRepo) ListAllByPatient(_ context.Context, patientID uuid.UUID) ([]*ExternalLink, error) {
	var result []*ExternalLink
	for _, l := range m.links {
		if l.PatientID == patientID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockRepo) Update(_ context.Context, l *ExternalLink) error {
	m.links[l.ID] = l
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.links, id)
	return nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*patient.Patient
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
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

func TestCreateLink(t *testing.T) {
	patients := &mockPatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
	svc := NewService(newMockRepo(), patients)
	accountID := uuid.New()

	p := &patient.Patient{AccountID: accountID, FullName: "Ana Souza"}
	if err := patients.Create(context.Background(), p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	l := &ExternalLink{PatientID: p.ID, Label: "School portal", URL: "https://school.example.com/ana"}
	if err := svc.Create(context.Background(), accountID, l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.ID == uuid.Nil {
		t.Error("expected link id to be assigned")
	}
}

func TestCreateLink_RelativeURL(t *testing.T) {
	patients := &mockPatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
	svc := NewService(newMockRepo(), patients)
	accountID := uuid.New()

	p := &patient.Patient{AccountID: accountID, FullName: "Ana Souza"}
	if err := patients.Create(context.Background(), p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	l := &ExternalLink{PatientID: p.ID, Label: "Folder", URL: "/shared/folder"}
	if err := svc.Create(context.Background(), accountID, l); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestCreateLink_ForeignPatient(t *testing.T) {
	patients := &mockPatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
	svc := NewService(newMockRepo(), patients)

	p := &patient.Patient{AccountID: uuid.New(), FullName: "Ana Souza"}
	if err := patients.Create(context.Background(), p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	l := &ExternalLink{PatientID: p.ID, Label: "Folder", URL: "https://example.com/f"}
	err := svc.Create(context.Background(), uuid.New(), l)
	if err == nil {
		t.Fatal("expected error for foreign patient")
	}
	appErr, ok := apperror.As(err)
	if !ok || appErr.Code != apperror.CodePatientNotFound {
		t.Errorf("expected PATIENT_NOT_FOUND, got %v", err)
	}
}
