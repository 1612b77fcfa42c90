// Package service contains the business logic layer.
//
// This file implements the submission pipeline: the one moderately
// structured workflow in the product. A submission upserts the user,
// resolves the selected organisations, persists the raw form payload,
// sends one letter per organisation, and records a thread and email per
// successful send — all inside a single database transaction with an
// all-or-nothing outcome.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/letter"
	"github.com/arkology/forgetme/internal/mail"
	"github.com/arkology/forgetme/internal/metrics"
	"github.com/arkology/forgetme/internal/registry"
	"github.com/arkology/forgetme/internal/repository"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// SubmissionService defines the interface for the submission pipeline.
type SubmissionService interface {
	// Submit runs the full pipeline for one wizard submission. It never
	// returns an error: every outcome, including internal failures, is
	// reported through the structured SubmitResult so the wizard always
	// receives a response it can render.
	Submit(ctx context.Context, values domain.FormValues, requests []domain.RequestLabel) domain.SubmitResult
}

// submissionService is the concrete implementation of SubmissionService.
type submissionService struct {
	db       *sql.DB
	queries  *repository.Queries
	registry *registry.Registry
	sender   mail.Sender
	logger   *slog.Logger
}

// NewSubmissionService creates a new SubmissionService instance.
//
// Dependencies:
// - db: database handle used to open the pipeline transaction
// - queries: database queries (bound into the transaction via WithTx)
// - reg: static organisation registry
// - sender: mail client for letters and confirmations
// - logger: structured logger
func NewSubmissionService(db *sql.DB, queries *repository.Queries, reg *registry.Registry, sender mail.Sender, logger *slog.Logger) SubmissionService {
	return &submissionService{
		db:       db,
		queries:  queries,
		registry: reg,
		sender:   sender,
		logger:   logger,
	}
}

// Submit implements the pipeline described in the package comment.
//
// Failure handling: any error rolls back the transaction, writes a
// best-effort FailedInitiationAttempt diagnostic row (outside the
// transaction; its own failure is logged and swallowed), and returns the
// error message in the result. A failure of the post-commit confirmation
// email does NOT fail the submission; it downgrades the result message.
func (s *submissionService) Submit(ctx context.Context, values domain.FormValues, requests []domain.RequestLabel) domain.SubmitResult {
	const op = "SubmissionService.Submit"

	userID, resolvedRequests, err := s.submit(ctx, op, values, requests)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("submission failed", "error", err)
		s.recordFailedAttempt(ctx, err, values)
		return domain.SubmitResult{Success: false, Error: domain.ErrorMessage(err)}
	}

	metrics.SubmissionsTotal.WithLabelValues("success").Inc()

	// The transaction has committed; from here on the submission stands.
	if err := s.sendConfirmation(ctx, userID, resolvedRequests); err != nil {
		s.logger.Warn("delivery confirmation email failed", "error", err, "user_id", userID)
		return domain.SubmitResult{
			Success: true,
			Message: "Request submitted successfully, but the confirmation email could not be sent",
		}
	}

	s.logger.Info("submission completed", "user_id", userID, "organisations", len(values.Organisations))
	return domain.SubmitResult{Success: true, Message: "Request submitted successfully"}
}

// prepare validates the submission and resolves it against the request
// catalog and organisation registry. It has no side effects; everything
// that can be rejected is rejected here, before the transaction opens.
func (s *submissionService) prepare(op string, values domain.FormValues, requests []domain.RequestLabel) ([]domain.Organisation, []domain.RequestType, []domain.Letter, error) {
	if len(requests) == 0 {
		return nil, nil, nil, domain.Invalid(op, "Invalid form submission: no requests selected")
	}
	if err := values.Validate(op); err != nil {
		return nil, nil, nil, err
	}

	resolvedRequests, unknown := domain.ResolveRequests(requests)
	if len(unknown) > 0 {
		labels := make([]string, len(unknown))
		for i, l := range unknown {
			labels[i] = string(l)
		}
		return nil, nil, nil, domain.Errorf(domain.EINVALID, op, "Unknown request type: %s", strings.Join(labels, ", "))
	}

	// Resolve organisations; a single unknown slug aborts the whole
	// submission rather than silently dropping it.
	orgs, missing := s.registry.GetMany(values.Organisations)
	if len(missing) > 0 {
		return nil, nil, nil, domain.Errorf(domain.ENOTFOUND, op, "Organisation not found: %s", strings.Join(missing, ", "))
	}

	letters := letter.GenerateAll(values, orgs, resolvedRequests)
	return orgs, resolvedRequests, letters, nil
}

// submit runs the validated pipeline and returns the committed user id.
func (s *submissionService) submit(ctx context.Context, op string, values domain.FormValues, requests []domain.RequestLabel) (uuid.UUID, []domain.RequestType, error) {
	orgs, resolvedRequests, letters, err := s.prepare(op, values, requests)
	if err != nil {
		return uuid.Nil, nil, err
	}

	payload, err := json.Marshal(values)
	if err != nil {
		return uuid.Nil, nil, domain.Internal(err, op, "Failed to encode form payload")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, nil, domain.Internal(err, op, "Failed to begin transaction")
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)

	user, err := q.UpsertUserByIdentifier(ctx, values.Email, values.Email)
	if err != nil {
		return uuid.Nil, nil, domain.Internal(err, op, "Failed to upsert user")
	}

	if _, err := q.CreateFormSubmission(ctx, user.ID, pqtype.NullRawMessage{RawMessage: payload, Valid: true}); err != nil {
		return uuid.Nil, nil, domain.Internal(err, op, "Failed to store form submission")
	}

	// Map registry slugs to database rows for foreign keys.
	orgIDs, err := s.resolveOrganisationIDs(ctx, q, orgs)
	if err != nil {
		return uuid.Nil, nil, domain.Internal(err, op, "Organisation registry out of sync with database")
	}

	// Fire all sends concurrently, then wait for every branch to settle.
	// No branch is cancelled early on first failure: the verdict needs
	// them all, and a rollback discards the successful branches anyway.
	outcomes := s.sendLetters(ctx, letters, values.Email)

	if err := s.deliveryVerdict(op, orgs, outcomes); err != nil {
		return uuid.Nil, nil, err
	}

	// Every send succeeded: record a thread and email per organisation.
	for i, org := range orgs {
		thread, err := q.CreateThread(ctx, user.ID, orgIDs[org.Slug], domain.ThreadStatusOpen)
		if err != nil {
			return uuid.Nil, nil, domain.Internal(err, op, "Failed to create thread")
		}

		_, err = q.CreateEmail(ctx, repository.CreateEmailParams{
			ThreadID:  thread.ID,
			UserID:    user.ID,
			Sender:    domain.EmailSenderUser,
			Content:   letters[i].Body,
			Status:    domain.EmailStatusPending,
			MailgunID: outcomes[i].result.ID,
			SentAt:    time.Now(),
		})
		if err != nil {
			return uuid.Nil, nil, domain.Internal(err, op, "Failed to create email record")
		}

		metrics.LettersSent.WithLabelValues(org.Slug).Inc()
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, nil, domain.Internal(err, op, "Failed to commit submission")
	}

	return user.ID, resolvedRequests, nil
}

// deliveryVerdict inspects the settled send outcomes. A single failed
// branch fails the whole submission. The error carries EUNAVAILABLE rather
// than EINTERNAL so the failure count reaches the caller verbatim instead
// of being replaced by the generic internal-error message.
func (s *submissionService) deliveryVerdict(op string, orgs []domain.Organisation, outcomes []sendOutcome) error {
	var failed int
	for i, outcome := range outcomes {
		if outcome.err != nil {
			failed++
			s.logger.Error("letter send failed",
				"organisation", orgs[i].Slug,
				"error", outcome.err,
			)
		}
	}
	if failed > 0 {
		return domain.Errorf(domain.EUNAVAILABLE, op, "Email delivery failed for %d organisations", failed)
	}
	return nil
}

// sendOutcome captures one settled per-organisation branch.
type sendOutcome struct {
	result mail.SendResult
	err    error
}

// sendLetters dispatches every letter concurrently and blocks until all
// branches have settled. Results are positionally aligned with letters.
func (s *submissionService) sendLetters(ctx context.Context, letters []domain.Letter, fromEmail string) []sendOutcome {
	outcomes := make([]sendOutcome, len(letters))

	var wg sync.WaitGroup
	for i := range letters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := s.sender.SendRequestLetter(ctx, letters[i], fromEmail)
			outcomes[i] = sendOutcome{result: result, err: err}
		}(i)
	}
	wg.Wait()

	return outcomes
}

// resolveOrganisationIDs maps registry organisations to database ids.
func (s *submissionService) resolveOrganisationIDs(ctx context.Context, q *repository.Queries, orgs []domain.Organisation) (map[string]uuid.UUID, error) {
	slugs := make([]string, len(orgs))
	for i, org := range orgs {
		slugs[i] = org.Slug
	}

	rows, err := q.GetOrganisationsBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(orgs) {
		return nil, fmt.Errorf("expected %d organisation rows, found %d", len(orgs), len(rows))
	}

	ids := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		ids[row.Slug] = row.ID
	}
	return ids, nil
}

// sendConfirmation re-fetches the committed user and emails the delivery
// confirmation. The re-fetch guards against the user row disappearing
// between commit and confirmation.
func (s *submissionService) sendConfirmation(ctx context.Context, userID uuid.UUID, requests []domain.RequestType) error {
	user, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("user record missing after commit")
		}
		return fmt.Errorf("failed to fetch user after commit: %w", err)
	}

	_, err = s.sender.SendDeliveryConfirmation(ctx, user.Email, confirmationRequestName(requests))
	return err
}

// confirmationRequestName names the request in the confirmation subject.
func confirmationRequestName(requests []domain.RequestType) string {
	if len(requests) == 1 {
		return requests[0].Name
	}
	return "Data Protection"
}

// recordFailedAttempt writes a diagnostic row for a failed submission.
// Best effort: a failure here is logged and swallowed so the caller still
// receives the original error.
func (s *submissionService) recordFailedAttempt(ctx context.Context, cause error, values domain.FormValues) {
	payload, err := json.Marshal(values)
	if err != nil {
		s.logger.Error("failed to encode payload for failed attempt record", "error", err)
		payload = nil
	}

	data := pqtype.NullRawMessage{RawMessage: payload, Valid: payload != nil}
	if _, err := s.queries.CreateFailedInitiationAttempt(ctx, cause.Error(), data); err != nil {
		s.logger.Error("failed to record failed initiation attempt", "error", err)
	}
}
