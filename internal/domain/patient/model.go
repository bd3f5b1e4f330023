package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient statuses as exposed over the API. A patient with no archived_at
// timestamp is active; the timestamp itself records when it became inactive.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	AccountID        uuid.UUID  `db:"account_id" json:"account_id"`
	FullName         string     `db:"full_name" json:"full_name"`
	Email            *string    `db:"email" json:"email,omitempty"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	FixedSessionDay  *int       `db:"fixed_session_day" json:"fixed_session_day,omitempty"`
	FixedSessionTime *string    `db:"fixed_session_time" json:"fixed_session_time,omitempty"`
	ArchivedAt       *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

func (p *Patient) Status() string {
	if p.ArchivedAt == nil {
		return StatusActive
	}
	return StatusInactive
}

// HasFixedSchedule reports whether both halves of the weekly recurring slot
// are configured. Recurring generation needs day and time together.
func (p *Patient) HasFixedSchedule() bool {
	return p.FixedSessionDay != nil && p.FixedSessionTime != nil && *p.FixedSessionTime != ""
}
