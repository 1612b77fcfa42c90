package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/mailgun/mailgun-go/v4"
)

// MailgunSender sends email through the Mailgun messages API.
type MailgunSender struct {
	client *mailgun.MailgunImpl
	config Config
	logger *slog.Logger
}

// NewMailgunSender creates a Mailgun-backed Sender.
// Returns an error if the API key is missing so misconfiguration fails at
// startup rather than on the first send.
func NewMailgunSender(cfg Config, logger *slog.Logger) (*MailgunSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mailgun api key is not set")
	}
	if cfg.Domain == "" {
		return nil, fmt.Errorf("mailgun sending domain is not set")
	}

	return &MailgunSender{
		client: mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		config: cfg,
		logger: logger,
	}, nil
}

// SendRequestLetter sends a generated letter to an organisation on behalf
// of the citizen. In dev mode the recipient is replaced with the internal
// test address; the letter content is unchanged.
func (s *MailgunSender) SendRequestLetter(ctx context.Context, letter domain.Letter, fromEmail string) (SendResult, error) {
	to := letter.To
	if s.config.DevMode && s.config.DevRedirectEmail != "" {
		to = s.config.DevRedirectEmail
	}

	from := fmt.Sprintf("%s <%s>", CitizenFromName, fromEmail)
	msg := s.client.NewMessage(from, letter.Subject, letter.Body, to)

	resp, id, err := s.client.Send(ctx, msg)
	if err != nil {
		s.logger.Error("failed to send request letter",
			"to", to,
			"subject", letter.Subject,
			"error", err,
		)
		return SendResult{}, fmt.Errorf("failed to send request letter: %w", err)
	}

	s.logger.Info("request letter sent", "to", to, "mailgun_id", id)
	return SendResult{ID: id, Message: resp}, nil
}

// SendDeliveryConfirmation confirms to the user that their request has been
// dispatched. Skipped entirely in dev mode.
func (s *MailgunSender) SendDeliveryConfirmation(ctx context.Context, to, requestName string) (SendResult, error) {
	if s.config.DevMode {
		s.logger.Info("skipping delivery confirmation email in dev mode", "to", to)
		return SendResult{ID: "dev-skipped"}, nil
	}

	from := fmt.Sprintf("%s <%s>", ServiceFromName, s.config.FromEmail)
	subject := fmt.Sprintf("Delivery Confirmation: %s Request", requestName)
	body := "This is an email to confirm that your request has been delivered to the relevant organisations."

	msg := s.client.NewMessage(from, subject, body, to)

	resp, id, err := s.client.Send(ctx, msg)
	if err != nil {
		s.logger.Error("failed to send delivery confirmation", "to", to, "error", err)
		return SendResult{}, fmt.Errorf("failed to send delivery confirmation: %w", err)
	}

	s.logger.Info("delivery confirmation sent", "to", to, "mailgun_id", id)
	return SendResult{ID: id, Message: resp}, nil
}

// SendVerificationCode emails a verification code. Skipped in dev mode;
// the code is still persisted, so developers read it from the database.
func (s *MailgunSender) SendVerificationCode(ctx context.Context, to, code string) (SendResult, error) {
	if s.config.DevMode {
		s.logger.Info("skipping verification code email in dev mode", "to", to)
		return SendResult{ID: "dev-skipped"}, nil
	}

	from := fmt.Sprintf("%s <%s>", ServiceFromName, NoReplyEmail)
	subject := "Verification Code (Please Forget Me)"
	body := fmt.Sprintf("Your verification code is: %s. It will expire in 10 minutes.", code)

	msg := s.client.NewMessage(from, subject, body, to)

	resp, id, err := s.client.Send(ctx, msg)
	if err != nil {
		s.logger.Error("failed to send verification code", "to", to, "error", err)
		return SendResult{}, fmt.Errorf("failed to send verification code: %w", err)
	}

	s.logger.Info("verification code sent", "to", to, "mailgun_id", id)
	return SendResult{ID: id, Message: resp}, nil
}

// Compile-time interface check
var _ Sender = (*MailgunSender)(nil)
