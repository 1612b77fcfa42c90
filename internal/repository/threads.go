package repository

import (
	"context"

	"github.com/google/uuid"
)

const createThread = `
INSERT INTO threads (user_id, organisation_id, status)
VALUES ($1, $2, $3)
RETURNING id, user_id, organisation_id, status, created_at, updated_at
`

func (q *Queries) CreateThread(ctx context.Context, userID, organisationID uuid.UUID, status string) (Thread, error) {
	var t Thread
	err := q.db.QueryRowContext(ctx, createThread, userID, organisationID, status).Scan(
		&t.ID, &t.UserID, &t.OrganisationID, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

const countThreadsByStatus = `SELECT count(*) FROM threads WHERE status = $1`

func (q *Queries) CountThreadsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countThreadsByStatus, status).Scan(&n)
	return n, err
}
