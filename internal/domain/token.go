// Package domain contains core business types and interfaces.
//
// This file defines the email verification token used to prove ownership of
// the submitting address.
package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// VerificationCodeDuration is how long a verification code remains
	// valid. Short because the code travels in plain text email.
	VerificationCodeDuration = 10 * time.Minute

	// VerificationCodeDigits is the length of the zero-padded numeric code.
	VerificationCodeDigits = 5
)

// EmailVerificationToken is a single-use, time-boxed numeric code sent to a
// user's address. A token is valid only while unused and unexpired.
//
// Flow:
//  1. User requests a code -> system persists token, emails the code
//  2. User submits the code
//  3. System matches an unused, unexpired token for that user
//  4. On match -> token marked used, user marked verified
type EmailVerificationToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Code      string // Zero-padded numeric code, e.g. "04217"
	ExpiresAt time.Time
	UsedAt    *time.Time // nil = unused; set exactly once
	CreatedAt time.Time
}

// IsExpired returns true if the token has expired.
func (t *EmailVerificationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsUsed returns true if the token has already been consumed.
func (t *EmailVerificationToken) IsUsed() bool {
	return t.UsedAt != nil
}

// IsValid returns true if the token is unused and unexpired.
func (t *EmailVerificationToken) IsValid() bool {
	return !t.IsExpired() && !t.IsUsed()
}
