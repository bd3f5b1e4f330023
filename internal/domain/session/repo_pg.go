package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const sessionCols = `id, patient_id, scheduled_at, status, cancellation_reason,
	canceled_at, notes, created_at, updated_at`

func (r *repoPG) scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.PatientID, &s.ScheduledAt, &s.Status, &s.CancellationReason,
		&s.CanceledAt, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Session, error) {
	defer rows.Close()
	var items []*Session
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, s *Session) error {
	s.ID = uuid.New()
	if s.Status == "" {
		s.Status = StatusScheduled
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO session (id, patient_id, scheduled_at, status, cancellation_reason, canceled_at, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.PatientID, s.ScheduledAt, s.Status, s.CancellationReason, s.CanceledAt, s.Notes)
	return err
}

func (r *repoPG) CreateBatch(ctx context.Context, sessions []*Session) error {
	for _, s := range sessions {
		if err := r.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	return r.scanSession(r.conn(ctx).QueryRow(ctx, `SELECT `+sessionCols+` FROM session WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Session, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM session WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+sessionCols+` FROM session WHERE patient_id = $1 ORDER BY scheduled_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListByPatientBetween(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*Session, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+sessionCols+` FROM session
		 WHERE patient_id = $1 AND scheduled_at >= $2 AND scheduled_at <= $3
		 ORDER BY scheduled_at`,
		patientID, from, to)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Session, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+sessionCols+` FROM session WHERE patient_id = $1 ORDER BY scheduled_at`, patientID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) Update(ctx context.Context, s *Session) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE session SET scheduled_at=$2, status=$3, cancellation_reason=$4, canceled_at=$5, notes=$6, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.ScheduledAt, s.Status, s.CancellationReason, s.CanceledAt, s.Notes)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE session SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) CancelScheduledFrom(ctx context.Context, patientID uuid.UUID, from time.Time, reason string, canceledAt time.Time) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE session SET status=$4, cancellation_reason=$3, canceled_at=$5, updated_at=NOW()
		WHERE patient_id = $1 AND status = $6 AND scheduled_at >= $2`,
		patientID, from, reason, StatusCanceled, canceledAt, StatusScheduled)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM session WHERE id = $1`, id)
	return err
}
