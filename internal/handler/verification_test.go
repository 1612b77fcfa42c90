package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/stretchr/testify/assert"
)

// stubVerificationService returns canned errors per method.
type stubVerificationService struct {
	requestErr error
	verifyErr  error
	gotEmail   string
	gotCode    string
}

func (s *stubVerificationService) RequestCode(_ context.Context, email string) error {
	s.gotEmail = email
	return s.requestErr
}

func (s *stubVerificationService) VerifyCode(_ context.Context, email, code string) error {
	s.gotEmail = email
	s.gotCode = code
	return s.verifyErr
}

func (s *stubVerificationService) DeleteExpiredTokens(_ context.Context) error {
	return nil
}

func TestHandleRequestCode(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("issues code for valid request", func(t *testing.T) {
		svc := &stubVerificationService{}
		h := NewVerificationHandler(svc, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/verification/request", strings.NewReader(`{"email":"ada@example.com"}`))
		rec := httptest.NewRecorder()

		h.HandleRequestCode(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ada@example.com", svc.gotEmail)
		assert.Contains(t, rec.Body.String(), "Verification code sent")
	})

	t.Run("maps service error to status", func(t *testing.T) {
		svc := &stubVerificationService{requestErr: domain.Invalid("test", "Email domain must contain a dot")}
		h := NewVerificationHandler(svc, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/verification/request", strings.NewReader(`{"email":"bad@localhost"}`))
		rec := httptest.NewRecorder()

		h.HandleRequestCode(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email domain must contain a dot")
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		h := NewVerificationHandler(&stubVerificationService{}, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/verification/request", strings.NewReader("nope"))
		rec := httptest.NewRecorder()

		h.HandleRequestCode(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleVerifyCode(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("verifies valid code", func(t *testing.T) {
		svc := &stubVerificationService{}
		h := NewVerificationHandler(svc, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/verification/verify", strings.NewReader(`{"email":"ada@example.com","code":"04217"}`))
		rec := httptest.NewRecorder()

		h.HandleVerifyCode(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ada@example.com", svc.gotEmail)
		assert.Equal(t, "04217", svc.gotCode)
		assert.Contains(t, rec.Body.String(), "Email verified")
	})

	t.Run("invalid code returns 400 with generic message", func(t *testing.T) {
		svc := &stubVerificationService{verifyErr: domain.Invalid("test", "Invalid or expired code.")}
		h := NewVerificationHandler(svc, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/verification/verify", strings.NewReader(`{"email":"ada@example.com","code":"00000"}`))
		rec := httptest.NewRecorder()

		h.HandleVerifyCode(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired code.")
	})
}
