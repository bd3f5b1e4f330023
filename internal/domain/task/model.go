package task

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen     = "open"
	StatusDone     = "done"
	StatusCanceled = "canceled"
)

// Task is a to-do item, optionally tied to a patient and/or a session.
// A task with neither is a general reminder for the account.
type Task struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	AccountID   uuid.UUID  `db:"account_id" json:"account_id"`
	PatientID   *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	SessionID   *uuid.UUID `db:"session_id" json:"session_id,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Status      string     `db:"status" json:"status"`
	DueAt       *time.Time `db:"due_at" json:"due_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
