// Package mail provides transactional email sending for the Forget Me
// service.
//
// This package defines a Sender interface with a Mailgun-backed
// implementation. All outbound mail flows through here: request letters to
// organisations, delivery confirmations to users, and verification codes.
package mail

import (
	"context"

	"github.com/arkology/forgetme/internal/domain"
)

// Sender defines the interface for sending transactional emails.
//
// Implementations:
// - MailgunSender: sends via the Mailgun API
// - test doubles in the service and handler tests
//
// All methods are context-aware for timeout and cancellation support, and
// return the provider's message id on success. A send failure is an error
// the caller must treat as a failed branch, never a crash.
type Sender interface {
	// SendRequestLetter sends a generated letter to an organisation. The
	// message is sent on behalf of the citizen: fromEmail is the user's
	// own address, displayed as "Citizen of the Internet <email>".
	SendRequestLetter(ctx context.Context, letter domain.Letter, fromEmail string) (SendResult, error)

	// SendDeliveryConfirmation tells a user their request was dispatched.
	// requestName is the human-readable request label for the subject.
	SendDeliveryConfirmation(ctx context.Context, to, requestName string) (SendResult, error)

	// SendVerificationCode emails a verification code to an address.
	SendVerificationCode(ctx context.Context, to, code string) (SendResult, error)
}

// SendResult is the provider's acknowledgement of an accepted message.
type SendResult struct {
	ID      string // Provider message id, used to correlate webhook events
	Message string // Provider status message
}

// Config holds Mailgun configuration.
type Config struct {
	APIKey    string // Mailgun API key (required)
	Domain    string // Mailgun sending domain
	FromEmail string // Organisation-facing from address for confirmations

	// DevMode redirects organisation-bound letters to DevRedirectEmail and
	// skips verification/confirmation sends entirely, so development never
	// emails a real privacy desk.
	DevMode          bool
	DevRedirectEmail string
}

// Default sender identities.
const (
	// CitizenFromName is the display name letters are sent under.
	CitizenFromName = "Citizen of the Internet"

	// ServiceFromName is the display name for service-originated mail.
	ServiceFromName = "Please Forget Me"

	// NoReplyEmail is the from address for verification codes.
	NoReplyEmail = "noreply@pleaseforget.me"
)
