package guidance

import (
	"context"

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

const guidanceCols = `id, patient_id, session_id, topic, status, notes, created_at, updated_at`

func (r *repoPG) scanGuidance(row pgx.Row) (*Guidance, error) {
	var g Guidance
	err := row.Scan(&g.ID, &g.PatientID, &g.SessionID, &g.Topic, &g.Status, &g.Notes, &g.CreatedAt, &g.UpdatedAt)
	return &g, err
}

func (r *repoPG) Create(ctx context.Context, g *Guidance) error {
	g.ID = uuid.New()
	if g.Status == "" {
		g.Status = StatusActive
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO guidance_session (id, patient_id, session_id, topic, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		g.ID, g.PatientID, g.SessionID, g.Topic, g.Status, g.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Guidance, error) {
	return r.scanGuidance(r.conn(ctx).QueryRow(ctx, `SELECT `+guidanceCols+` FROM guidance_session WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Guidance, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM guidance_session WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+guidanceCols+` FROM guidance_session WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Guidance
	for rows.Next() {
		g, err := r.scanGuidance(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, g)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Guidance, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+guidanceCols+` FROM guidance_session WHERE patient_id = $1 ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Guidance
	for rows.Next() {
		g, err := r.scanGuidance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, g *Guidance) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE guidance_session SET session_id=$2, topic=$3, status=$4, notes=$5, updated_at=NOW()
		WHERE id = $1`,
		g.ID, g.SessionID, g.Topic, g.Status, g.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM guidance_session WHERE id = $1`, id)
	return err
}
