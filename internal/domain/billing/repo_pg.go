package billing

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

const receiptCols = `id, patient_id, amount_cents, issued_at, description, created_at, updated_at`

func (r *repoPG) scanReceipt(row pgx.Row) (*Receipt, error) {
	var rec Receipt
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.AmountCents, &rec.IssuedAt, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *repoPG) loadAllocations(ctx context.Context, rec *Receipt) error {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT receipt_id, session_id, amount_cents FROM receipt_allocation WHERE receipt_id = $1 ORDER BY session_id`, rec.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a Allocation
		if err := rows.Scan(&a.ReceiptID, &a.SessionID, &a.AmountCents); err != nil {
			return err
		}
		rec.Allocations = append(rec.Allocations, a)
	}
	return rows.Err()
}

func (r *repoPG) Create(ctx context.Context, rec *Receipt) error {
	rec.ID = uuid.New()
	if _, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO receipt (id, patient_id, amount_cents, issued_at, description)
		VALUES ($1,$2,$3,$4,$5)`,
		rec.ID, rec.PatientID, rec.AmountCents, rec.IssuedAt, rec.Description); err != nil {
		return err
	}
	for i := range rec.Allocations {
		rec.Allocations[i].ReceiptID = rec.ID
		a := rec.Allocations[i]
		if _, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO receipt_allocation (receipt_id, session_id, amount_cents) VALUES ($1,$2,$3)`,
			a.ReceiptID, a.SessionID, a.AmountCents); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	rec, err := r.scanReceipt(r.conn(ctx).QueryRow(ctx, `SELECT `+receiptCols+` FROM receipt WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadAllocations(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Receipt, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM receipt WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+receiptCols+` FROM receipt WHERE patient_id = $1 ORDER BY issued_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListAllByPatient(ctx context.Context, patientID uuid.UUID) ([]*Receipt, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+receiptCols+` FROM receipt WHERE patient_id = $1 ORDER BY issued_at`, patientID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *repoPG) collect(ctx context.Context, rows pgx.Rows) ([]*Receipt, error) {
	var items []*Receipt
	for rows.Next() {
		rec, err := r.scanReceipt(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range items {
		if err := r.loadAllocations(ctx, rec); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM receipt_allocation WHERE receipt_id = $1`, id); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM receipt WHERE id = $1`, id)
	return err
}
