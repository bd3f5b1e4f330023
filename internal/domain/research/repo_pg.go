package research

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

// -- Notes --

const noteCols = `id, patient_id, title, content, created_at, updated_at`

func (r *repoPG) scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.PatientID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

func (r *repoPG) loadCitations(ctx context.Context, n *Note) error {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT document_id FROM research_note_document WHERE note_id = $1 ORDER BY document_id`, n.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		n.DocumentIDs = append(n.DocumentIDs, id)
	}
	return rows.Err()
}

func (r *repoPG) saveCitations(ctx context.Context, n *Note) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM research_note_document WHERE note_id = $1`, n.ID); err != nil {
		return err
	}
	for _, docID := range n.DocumentIDs {
		if _, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO research_note_document (note_id, document_id) VALUES ($1,$2)`, n.ID, docID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) CreateNote(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	if _, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO research_note (id, patient_id, title, content)
		VALUES ($1,$2,$3,$4)`,
		n.ID, n.PatientID, n.Title, n.Content); err != nil {
		return err
	}
	return r.saveCitations(ctx, n)
}

func (r *repoPG) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	n, err := r.scanNote(r.conn(ctx).QueryRow(ctx, `SELECT `+noteCols+` FROM research_note WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadCitations(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *repoPG) ListNotesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM research_note WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+noteCols+` FROM research_note WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collectNotes(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListAllNotesByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+noteCols+` FROM research_note WHERE patient_id = $1 ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	return r.collectNotes(ctx, rows)
}

func (r *repoPG) collectNotes(ctx context.Context, rows pgx.Rows) ([]*Note, error) {
	var items []*Note
	for rows.Next() {
		n, err := r.scanNote(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, n := range items {
		if err := r.loadCitations(ctx, n); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *repoPG) UpdateNote(ctx context.Context, n *Note) error {
	if _, err := r.conn(ctx).Exec(ctx, `
		UPDATE research_note SET title=$2, content=$3, updated_at=NOW()
		WHERE id = $1`,
		n.ID, n.Title, n.Content); err != nil {
		return err
	}
	return r.saveCitations(ctx, n)
}

func (r *repoPG) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM research_note_document WHERE note_id = $1`, id); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM research_note WHERE id = $1`, id)
	return err
}

// -- Documents --

const documentCols = `id, patient_id, title, url, created_at, updated_at`

func (r *repoPG) scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.PatientID, &d.Title, &d.URL, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) CreateDocument(ctx context.Context, d *Document) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO research_document (id, patient_id, title, url)
		VALUES ($1,$2,$3,$4)`,
		d.ID, d.PatientID, d.Title, d.URL)
	return err
}

func (r *repoPG) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	return r.scanDocument(r.conn(ctx).QueryRow(ctx, `SELECT `+documentCols+` FROM research_document WHERE id = $1`, id))
}

func (r *repoPG) ListDocumentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Document, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM research_document WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+documentCols+` FROM research_document WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Document
	for rows.Next() {
		d, err := r.scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListAllDocumentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+documentCols+` FROM research_document WHERE patient_id = $1 ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Document
	for rows.Next() {
		d, err := r.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateDocument(ctx context.Context, d *Document) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE research_document SET title=$2, url=$3, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Title, d.URL)
	return err
}

func (r *repoPG) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM research_note_document WHERE document_id = $1`, id); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM research_document WHERE id = $1`, id)
	return err
}
