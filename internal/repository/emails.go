package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CreateEmailParams struct {
	ThreadID  uuid.UUID
	UserID    uuid.UUID
	Sender    string
	Content   string
	Status    string
	MailgunID string
	SentAt    time.Time
}

const createEmail = `
INSERT INTO emails (thread_id, user_id, sender, content, status, mailgun_id, sent_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, thread_id, user_id, sender, content, status, mailgun_id, sent_at, created_at
`

func (q *Queries) CreateEmail(ctx context.Context, arg CreateEmailParams) (Email, error) {
	var e Email
	err := q.db.QueryRowContext(ctx, createEmail,
		arg.ThreadID, arg.UserID, arg.Sender, arg.Content, arg.Status, arg.MailgunID, arg.SentAt,
	).Scan(
		&e.ID, &e.ThreadID, &e.UserID, &e.Sender, &e.Content, &e.Status, &e.MailgunID, &e.SentAt, &e.CreatedAt,
	)
	return e, err
}

const getEmailByMailgunID = `
SELECT id, thread_id, user_id, sender, content, status, mailgun_id, sent_at, created_at
FROM emails
WHERE mailgun_id = $1
`

func (q *Queries) GetEmailByMailgunID(ctx context.Context, mailgunID string) (Email, error) {
	var e Email
	err := q.db.QueryRowContext(ctx, getEmailByMailgunID, mailgunID).Scan(
		&e.ID, &e.ThreadID, &e.UserID, &e.Sender, &e.Content, &e.Status, &e.MailgunID, &e.SentAt, &e.CreatedAt,
	)
	return e, err
}

const updateEmailStatusByMailgunID = `
UPDATE emails
SET status = $2
WHERE mailgun_id = $1
`

// UpdateEmailStatusByMailgunID sets the delivery status for the email with
// the given provider id. Last write wins; webhook events carry no ordering
// guarantee.
func (q *Queries) UpdateEmailStatusByMailgunID(ctx context.Context, mailgunID, status string) error {
	_, err := q.db.ExecContext(ctx, updateEmailStatusByMailgunID, mailgunID, status)
	return err
}

const countEmailsByStatus = `SELECT count(*) FROM emails WHERE status = $1`

func (q *Queries) CountEmailsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countEmailsByStatus, status).Scan(&n)
	return n, err
}
