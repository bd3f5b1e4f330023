package billing

import (
	"time"

	"github.com/google/uuid"
)

// Receipt records a payment from a patient. AmountCents is the total paid;
// allocations split it across the sessions it covers.
type Receipt struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	PatientID   uuid.UUID    `db:"patient_id" json:"patient_id"`
	AmountCents int64        `db:"amount_cents" json:"amount_cents"`
	IssuedAt    time.Time    `db:"issued_at" json:"issued_at"`
	Description *string      `db:"description" json:"description,omitempty"`
	Allocations []Allocation `json:"allocations,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// Allocation assigns part of a receipt's amount to one session.
type Allocation struct {
	ReceiptID   uuid.UUID `db:"receipt_id" json:"receipt_id"`
	SessionID   uuid.UUID `db:"session_id" json:"session_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
}
