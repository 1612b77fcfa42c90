// Package domain contains core business types and interfaces.
//
// This file defines the persisted artifacts of one submission: the raw form
// payload, the per-organisation correspondence threads, the outbound email
// records whose delivery status the mail provider drives, and the
// diagnostic record written when a submission fails.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Thread statuses.
const (
	ThreadStatusOpen   = "open"
	ThreadStatusClosed = "closed"
)

// Email delivery statuses, in lifecycle order. Transitions past "pending"
// are driven by mail-provider webhook events; last write wins.
const (
	EmailStatusPending   = "pending"
	EmailStatusQueued    = "queued"
	EmailStatusDelivered = "delivered"
)

// EmailSenderUser marks an email as authored by the user (as opposed to a
// future organisation reply in the same thread).
const EmailSenderUser = "user"

// FormSubmission is the write-once record of one wizard submission.
// Data holds the validated form payload as submitted.
type FormSubmission struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Data      json.RawMessage
	CreatedAt time.Time
}

// Thread is one ongoing correspondence between a user and an organisation,
// created per organisation per submission.
type Thread struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	OrganisationID uuid.UUID
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Email is one message belonging to a thread. MailgunID is the provider's
// message id, used to correlate delivery webhook events.
type Email struct {
	ID        uuid.UUID
	ThreadID  uuid.UUID
	UserID    uuid.UUID
	Sender    string
	Content   string
	Status    string
	MailgunID string
	SentAt    time.Time
	CreatedAt time.Time
}

// FailedInitiationAttempt is a best-effort diagnostic record written when a
// submission transaction fails. Data is the original payload.
type FailedInitiationAttempt struct {
	ID           uuid.UUID
	ErrorMessage string
	Data         json.RawMessage
	CreatedAt    time.Time
}

// SubmitResult is the structured outcome returned to the wizard.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
