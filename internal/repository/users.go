package repository

import (
	"context"

	"github.com/google/uuid"
)

const upsertUserByIdentifier = `
INSERT INTO users (identifier, email)
VALUES ($1, $2)
ON CONFLICT (identifier) DO UPDATE SET updated_at = now()
RETURNING id, identifier, email, verified, created_at, updated_at
`

// UpsertUserByIdentifier creates a user keyed by identifier, or touches the
// existing row. The update is deliberately a no-op beyond updated_at: a
// resubmission must never overwrite verification state.
func (q *Queries) UpsertUserByIdentifier(ctx context.Context, identifier, email string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, upsertUserByIdentifier, identifier, email).Scan(
		&u.ID, &u.Identifier, &u.Email, &u.Verified, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

const getUserByEmail = `
SELECT id, identifier, email, verified, created_at, updated_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).Scan(
		&u.ID, &u.Identifier, &u.Email, &u.Verified, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

const getUserByID = `
SELECT id, identifier, email, verified, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByID, id).Scan(
		&u.ID, &u.Identifier, &u.Email, &u.Verified, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

const setUserVerified = `
UPDATE users
SET verified = true, updated_at = now()
WHERE id = $1
`

func (q *Queries) SetUserVerified(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, setUserVerified, id)
	return err
}

const countUsers = `SELECT count(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}
