package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createEmailVerificationToken = `
INSERT INTO email_verification_tokens (user_id, code, expires_at)
VALUES ($1, $2, $3)
RETURNING id, user_id, code, expires_at, used_at, created_at
`

func (q *Queries) CreateEmailVerificationToken(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (EmailVerificationToken, error) {
	var t EmailVerificationToken
	err := q.db.QueryRowContext(ctx, createEmailVerificationToken, userID, code, expiresAt).Scan(
		&t.ID, &t.UserID, &t.Code, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt,
	)
	return t, err
}

const getVerificationTokenByCode = `
SELECT id, user_id, code, expires_at, used_at, created_at
FROM email_verification_tokens
WHERE user_id = $1
  AND code = $2
ORDER BY created_at DESC
LIMIT 1
`

// GetVerificationTokenByCode finds the most recent token matching the code
// for a user, in any state. The expiry and single-use rules are applied by
// the service layer so a used or expired token is indistinguishable from a
// wrong code.
func (q *Queries) GetVerificationTokenByCode(ctx context.Context, userID uuid.UUID, code string) (EmailVerificationToken, error) {
	var t EmailVerificationToken
	err := q.db.QueryRowContext(ctx, getVerificationTokenByCode, userID, code).Scan(
		&t.ID, &t.UserID, &t.Code, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt,
	)
	return t, err
}

const markVerificationTokenUsed = `
UPDATE email_verification_tokens
SET used_at = now()
WHERE id = $1
  AND used_at IS NULL
`

// MarkVerificationTokenUsed consumes a token. The used_at guard makes the
// operation idempotent: a second attempt updates zero rows.
func (q *Queries) MarkVerificationTokenUsed(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := q.db.ExecContext(ctx, markVerificationTokenUsed, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteExpiredVerificationTokens = `
DELETE FROM email_verification_tokens
WHERE expires_at < now()
`

func (q *Queries) DeleteExpiredVerificationTokens(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredVerificationTokens)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
