package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const createFormSubmission = `
INSERT INTO form_submissions (user_id, data)
VALUES ($1, $2)
RETURNING id, user_id, data, created_at
`

func (q *Queries) CreateFormSubmission(ctx context.Context, userID uuid.UUID, data pqtype.NullRawMessage) (FormSubmission, error) {
	var s FormSubmission
	err := q.db.QueryRowContext(ctx, createFormSubmission, userID, data).Scan(
		&s.ID, &s.UserID, &s.Data, &s.CreatedAt,
	)
	return s, err
}

const countFormSubmissions = `SELECT count(*) FROM form_submissions`

func (q *Queries) CountFormSubmissions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countFormSubmissions).Scan(&n)
	return n, err
}

const createFailedInitiationAttempt = `
INSERT INTO failed_initiation_attempts (error_message, data)
VALUES ($1, $2)
RETURNING id, error_message, data, created_at
`

func (q *Queries) CreateFailedInitiationAttempt(ctx context.Context, errorMessage string, data pqtype.NullRawMessage) (FailedInitiationAttempt, error) {
	var a FailedInitiationAttempt
	err := q.db.QueryRowContext(ctx, createFailedInitiationAttempt, errorMessage, data).Scan(
		&a.ID, &a.ErrorMessage, &a.Data, &a.CreatedAt,
	)
	return a, err
}
