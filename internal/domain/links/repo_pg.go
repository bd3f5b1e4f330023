package links

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

const linkCols = `id, patient_id, label, url, created_at, updated_at`

func (r *repoPG) scanLink(row pgx.Row) (*ExternalLink, error) {
	var l ExternalLink
	err := row.Scan(&l.ID, &l.PatientID, &l.Label, &l.URL, &l.CreatedAt, &l.UpdatedAt)
	return &l, err
}

func (r *repoPG) Create(ctx context.Context, l *ExternalLink) error {
	l.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO external_link (id, patient_id, label, url)
		VALUES ($1,$2,$3,$4)`,
		l.ID, l.PatientID, l.Label, l.URL)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ExternalLink, error) {
	return r.scanLink(r.conn(ctx).QueryRow(ctx, `SELECT `+linkCols+` FROM external_link WHERE id = $1`, id))
}

func (r *repoPG) ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*ExternalLink, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+linkCols+` FROM external_link WHERE patient_id = $1 ORDER BY label`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ExternalLink
	for rows.Next() {
		l, err := r.scanLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, l *ExternalLink) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE external_link SET label=$2, url=$3, updated_at=NOW()
		WHERE id = $1`,
		l.ID, l.Label, l.URL)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM external_link WHERE id = $1`, id)
	return err
}
