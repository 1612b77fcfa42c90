// Package domain contains core business types and interfaces.
//
// This file defines the User domain type. Users are keyed by their email
// address: the first verification request or submission creates the row,
// and nothing in this flow ever deletes it.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an individual using the service to send data-protection
// requests. There is no password authentication; identity is the email
// address, proven by the code-based verification flow.
type User struct {
	ID         uuid.UUID
	Identifier string // Stable lookup key; currently the submitting email
	Email      string
	Verified   bool // True once a verification code has been accepted
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
