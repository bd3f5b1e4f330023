package links

import (
	"time"

	"github.com/google/uuid"
)

// ExternalLink is a URL attached to a patient record (shared drive folder,
// school portal, referral page).
type ExternalLink struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Label     string    `db:"label" json:"label"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
