// Package service contains the business logic layer.
//
// Services orchestrate interactions between the repository, the registry,
// the mail client, and domain logic. They are responsible for:
// - Input validation
// - Business rule enforcement
// - Transaction coordination
// - Error translation (database errors -> domain errors)
package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/mail"
	"github.com/arkology/forgetme/internal/metrics"
	"github.com/arkology/forgetme/internal/repository"
)

// verificationFailedMessage is the single message returned for every
// verification failure mode (no user, wrong code, expired, already used).
// Distinguishing causes would hand an attacker guessing codes an oracle.
const verificationFailedMessage = "Invalid or expired code."

// VerificationService defines the interface for email ownership
// verification.
type VerificationService interface {
	// RequestCode finds or creates the user for the address, persists a
	// fresh single-use code valid for domain.VerificationCodeDuration, and
	// emails it.
	RequestCode(ctx context.Context, email string) error

	// VerifyCode consumes a previously issued code. On success the token is
	// marked used and the user is marked verified. Every failure mode
	// returns the same generic EINVALID error.
	VerifyCode(ctx context.Context, email, code string) error

	// DeleteExpiredTokens removes expired verification tokens.
	// Intended for periodic cleanup.
	DeleteExpiredTokens(ctx context.Context) error
}

// verificationService is the concrete implementation of VerificationService.
type verificationService struct {
	queries *repository.Queries
	sender  mail.Sender
	logger  *slog.Logger
}

// NewVerificationService creates a new VerificationService instance.
func NewVerificationService(queries *repository.Queries, sender mail.Sender, logger *slog.Logger) VerificationService {
	return &verificationService{
		queries: queries,
		sender:  sender,
		logger:  logger,
	}
}

// RequestCode implements the request-verification flow.
//
// Flow:
// 1. Validate and normalize the email
// 2. Find or create the user (identifier = email)
// 3. Generate a zero-padded numeric code
// 4. Persist the token with its expiry
// 5. Email the code
func (s *verificationService) RequestCode(ctx context.Context, email string) error {
	const op = "VerificationService.RequestCode"

	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return domain.Wrap(err, domain.EINVALID, op, "Invalid email address")
	}

	user, err := s.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		user, err = s.queries.UpsertUserByIdentifier(ctx, email, email)
	}
	if err != nil {
		return domain.Internal(err, op, "Failed to look up user")
	}

	code, err := generateVerificationCode()
	if err != nil {
		return domain.Internal(err, op, "Failed to generate verification code")
	}
	expiresAt := time.Now().Add(domain.VerificationCodeDuration)

	if _, err := s.queries.CreateEmailVerificationToken(ctx, user.ID, code, expiresAt); err != nil {
		return domain.Internal(err, op, "Failed to store verification code")
	}

	if _, err := s.sender.SendVerificationCode(ctx, email, code); err != nil {
		return domain.Internal(err, op, "Failed to send verification code")
	}

	metrics.VerificationCodesIssued.Inc()
	s.logger.Info("verification code issued", "user_id", user.ID)
	return nil
}

// VerifyCode implements the code-consumption flow.
func (s *verificationService) VerifyCode(ctx context.Context, email, code string) error {
	const op = "VerificationService.VerifyCode"

	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return domain.Invalid(op, verificationFailedMessage)
	}

	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("verification attempt for unknown email")
			metrics.VerificationAttempts.WithLabelValues("failed").Inc()
			return domain.Invalid(op, verificationFailedMessage)
		}
		return domain.Internal(err, op, "Failed to look up user")
	}

	row, err := s.queries.GetVerificationTokenByCode(ctx, user.ID, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.VerificationAttempts.WithLabelValues("failed").Inc()
			return domain.Invalid(op, verificationFailedMessage)
		}
		return domain.Internal(err, op, "Failed to look up verification code")
	}

	if err := checkToken(op, tokenFromRow(row)); err != nil {
		metrics.VerificationAttempts.WithLabelValues("failed").Inc()
		return err
	}

	// The used_at guard closes the race between two concurrent attempts
	// with the same code: only one of them updates a row.
	affected, err := s.queries.MarkVerificationTokenUsed(ctx, row.ID)
	if err != nil {
		return domain.Internal(err, op, "Failed to consume verification code")
	}
	if affected == 0 {
		metrics.VerificationAttempts.WithLabelValues("failed").Inc()
		return domain.Invalid(op, verificationFailedMessage)
	}

	if err := s.queries.SetUserVerified(ctx, user.ID); err != nil {
		return domain.Internal(err, op, "Failed to mark user verified")
	}

	metrics.VerificationAttempts.WithLabelValues("verified").Inc()
	s.logger.Info("user verified", "user_id", user.ID)
	return nil
}

// DeleteExpiredTokens removes expired tokens.
func (s *verificationService) DeleteExpiredTokens(ctx context.Context) error {
	const op = "VerificationService.DeleteExpiredTokens"

	deleted, err := s.queries.DeleteExpiredVerificationTokens(ctx)
	if err != nil {
		return domain.Internal(err, op, "Failed to delete expired tokens")
	}
	if deleted > 0 {
		s.logger.Info("deleted expired verification tokens", "count", deleted)
	}
	return nil
}

// tokenFromRow converts a repository token row to the domain type.
func tokenFromRow(row repository.EmailVerificationToken) domain.EmailVerificationToken {
	var usedAt *time.Time
	if row.UsedAt.Valid {
		u := row.UsedAt.Time
		usedAt = &u
	}
	return domain.EmailVerificationToken{
		ID:        row.ID,
		UserID:    row.UserID,
		Code:      row.Code,
		ExpiresAt: row.ExpiresAt,
		UsedAt:    usedAt,
		CreatedAt: row.CreatedAt,
	}
}

// checkToken enforces the single-use and expiry rules. A used token and an
// expired token produce the exact same error as a wrong code, so repeated
// attempts learn nothing about token state.
func checkToken(op string, token domain.EmailVerificationToken) error {
	if !token.IsValid() {
		return domain.Invalid(op, verificationFailedMessage)
	}
	return nil
}

// generateVerificationCode returns a zero-padded numeric code, e.g. "04217".
// crypto/rand rather than math/rand: the code is the entire secret.
func generateVerificationCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < domain.VerificationCodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", domain.VerificationCodeDigits, n), nil
}

// validateEmail performs basic email format validation.
//
// Rules:
// - Must be non-empty and at most 254 characters
// - Exactly one @, not at either end
// - Domain part must contain a dot
// - No consecutive dots
func validateEmail(email string) error {
	if email == "" {
		return domain.Invalid("", "Email is required")
	}

	if len(email) > 254 {
		return domain.Invalid("", "Email must be 254 characters or less")
	}

	atIndex := -1
	atCount := 0
	for i, c := range email {
		if c == '@' {
			atCount++
			atIndex = i
		}
	}

	if atCount != 1 {
		return domain.Invalid("", "Email must contain exactly one @ symbol")
	}
	if atIndex == 0 {
		return domain.Invalid("", "Email cannot start with @")
	}
	if atIndex == len(email)-1 {
		return domain.Invalid("", "Email cannot end with @")
	}

	if !strings.Contains(email[atIndex+1:], ".") {
		return domain.Invalid("", "Email domain must contain a dot")
	}

	if strings.Contains(email, "..") {
		return domain.Invalid("", "Email cannot contain consecutive dots")
	}

	return nil
}
