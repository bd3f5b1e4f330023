package research

import (
	"time"

	"github.com/google/uuid"
)

// Note is a research note on a patient. DocumentIDs lists the documents the
// note cites.
type Note struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	PatientID   uuid.UUID   `db:"patient_id" json:"patient_id"`
	Title       string      `db:"title" json:"title"`
	Content     *string     `db:"content" json:"content,omitempty"`
	DocumentIDs []uuid.UUID `json:"document_ids,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// Document is an external research reference (paper, article) attached to a
// patient. Storage of the file itself is out of scope; only the pointer is
// kept.
type Document struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Title     string    `db:"title" json:"title"`
	URL       *string   `db:"url" json:"url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
