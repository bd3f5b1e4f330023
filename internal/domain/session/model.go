package session

import (
	"time"

	"github.com/google/uuid"
)

// Session statuses. Sessions are never deleted by lifecycle transitions,
// only moved to canceled.
const (
	StatusScheduled    = "scheduled"
	StatusCompleted    = "completed"
	StatusCanceled     = "canceled"
	StatusCanceledLate = "canceled_late"
	StatusUndocumented = "undocumented"
)

type Session struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	ScheduledAt        time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status             string     `db:"status" json:"status"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CanceledAt         *time.Time `db:"canceled_at" json:"canceled_at,omitempty"`
	Notes              *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// IsUpcoming reports whether the session is still scheduled for a future
// instant relative to now.
func (s *Session) IsUpcoming(now time.Time) bool {
	return s.Status == StatusScheduled && s.ScheduledAt.After(now)
}
