// Package handler contains HTTP handlers for the Forget Me API.
//
// This file implements the Mailgun webhook handler for delivery events.
//
// Route:
//   - POST /webhooks/mailgun -> HandleMailgunWebhook
//
// This route is PUBLIC (no auth middleware) because Mailgun calls it
// directly. Authentication is via the webhook signature verification.
package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/mail"
	"github.com/arkology/forgetme/internal/metrics"
	"github.com/arkology/forgetme/internal/repository"
)

// WebhookHandler handles incoming webhook events from Mailgun.
type WebhookHandler struct {
	signingKey string
	queries    *repository.Queries
	sender     mail.Sender
	logger     *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(signingKey string, queries *repository.Queries, sender mail.Sender, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		signingKey: signingKey,
		queries:    queries,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterRoutes registers webhook routes on the provided mux.
// These routes are PUBLIC — no auth middleware.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhooks/mailgun", h.HandleMailgunWebhook)
}

// mailgunWebhookPayload is the subset of Mailgun's webhook body we consume.
type mailgunWebhookPayload struct {
	Signature struct {
		Timestamp string `json:"timestamp"`
		Token     string `json:"token"`
		Signature string `json:"signature"`
	} `json:"signature"`
	EventData struct {
		Event   string `json:"event"`
		Message struct {
			Headers struct {
				MessageID string `json:"message-id"`
			} `json:"headers"`
		} `json:"message"`
	} `json:"event-data"`
}

// HandleMailgunWebhook processes incoming Mailgun delivery events.
//
// Unknown message ids and unhandled event types are acknowledged with 200:
// Mailgun retries on anything else, and a retry cannot make those cases
// succeed.
func (h *WebhookHandler) HandleMailgunWebhook(w http.ResponseWriter, r *http.Request) {
	// Read body (limit to 64KB)
	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var payload mailgunWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn("webhook payload is not valid JSON", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if !h.verifySignature(payload.Signature.Timestamp, payload.Signature.Token, payload.Signature.Signature) {
		h.logger.Warn("webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	event := payload.EventData.Event
	messageID := payload.EventData.Message.Headers.MessageID

	h.logger.Info("mailgun webhook received", "event", event, "message_id", messageID)
	metrics.WebhookEvents.WithLabelValues(event).Inc()

	switch event {
	case "queued":
		h.handleQueued(r, messageID)
	case "delivered":
		h.handleDelivered(r, messageID)
	default:
		h.logger.Debug("unhandled webhook event type", "event", event)
	}

	w.WriteHeader(http.StatusOK)
}

// verifySignature checks the HMAC-SHA256 signature Mailgun attaches to
// every webhook: hex(HMAC(signingKey, timestamp || token)).
func (h *WebhookHandler) verifySignature(timestamp, token, signature string) bool {
	if timestamp == "" || token == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.signingKey))
	mac.Write([]byte(timestamp + token))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (h *WebhookHandler) handleQueued(r *http.Request, messageID string) {
	if messageID == "" {
		h.logger.Warn("queued event without message id")
		return
	}

	email, err := h.queries.GetEmailByMailgunID(r.Context(), messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.logger.Warn("queued event for unknown message id", "message_id", messageID)
			return
		}
		h.logger.Error("failed to look up email for queued event", "error", err, "message_id", messageID)
		return
	}

	if err := h.queries.UpdateEmailStatusByMailgunID(r.Context(), messageID, domain.EmailStatusQueued); err != nil {
		h.logger.Error("failed to mark email queued", "error", err, "email_id", email.ID)
	}
}

func (h *WebhookHandler) handleDelivered(r *http.Request, messageID string) {
	if messageID == "" {
		h.logger.Warn("delivered event without message id")
		return
	}

	email, err := h.queries.GetEmailByMailgunID(r.Context(), messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.logger.Warn("delivered event for unknown message id", "message_id", messageID)
			return
		}
		h.logger.Error("failed to look up email for delivered event", "error", err, "message_id", messageID)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), email.UserID)
	if err != nil {
		h.logger.Error("failed to look up user for delivered event", "error", err, "email_id", email.ID)
		return
	}

	// The delivered event carries no request-type context, so the
	// confirmation uses the generic label.
	if _, err := h.sender.SendDeliveryConfirmation(r.Context(), user.Email, "Data Protection"); err != nil {
		h.logger.Error("failed to send delivery confirmation", "error", err, "user_id", user.ID)
	}

	if err := h.queries.UpdateEmailStatusByMailgunID(r.Context(), messageID, domain.EmailStatusDelivered); err != nil {
		h.logger.Error("failed to mark email delivered", "error", err, "email_id", email.ID)
	}
}
