package lifecycle

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types. The event log is append-only and is the durable history of
// every status change a patient goes through.
const (
	EventSetInactive = "SET_INACTIVE"
	EventReactivated = "REACTIVATED"
)

type Event struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	PatientID  uuid.UUID       `db:"patient_id" json:"patient_id"`
	ActorID    uuid.UUID       `db:"actor_id" json:"actor_id"`
	EventType  string          `db:"event_type" json:"event_type"`
	OccurredAt time.Time       `db:"occurred_at" json:"occurred_at"`
	Reason     *string         `db:"reason" json:"reason,omitempty"`
	Metadata   json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
