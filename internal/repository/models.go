package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// Row models mirror the table definitions in internal/migrations.
// Conversion to domain types happens in the service layer.

type User struct {
	ID         uuid.UUID
	Identifier string
	Email      string
	Verified   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Organisation struct {
	ID    uuid.UUID
	Slug  string
	Name  string
	Label string
	Email string
}

type FormSubmission struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Data      pqtype.NullRawMessage
	CreatedAt time.Time
}

type Thread struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	OrganisationID uuid.UUID
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

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

type EmailVerificationToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Code      string
	ExpiresAt time.Time
	UsedAt    sql.NullTime
	CreatedAt time.Time
}

type FailedInitiationAttempt struct {
	ID           uuid.UUID
	ErrorMessage string
	Data         pqtype.NullRawMessage
	CreatedAt    time.Time
}
