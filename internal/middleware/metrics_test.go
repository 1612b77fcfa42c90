package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
)

// =============================================================================
// Metrics Auth Middleware Tests
// =============================================================================

func newMetricsAuthRequest(user, pass string) *http.Request {
	req := httptest.NewRequest("GET", "/metrics", nil)
	req.SetBasicAuth(user, pass)
	return req
}

func TestMetricsAuthMiddleware_AllowsValidCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("scraper", "secret123")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("metrics data"))
	})

	rec := httptest.NewRecorder()
	mw.Handler(handler).ServeHTTP(rec, newMetricsAuthRequest("scraper", "secret123"))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "metrics data" {
		t.Errorf("expected body 'metrics data', got %q", rec.Body.String())
	}
}

func TestMetricsAuthMiddleware_ChallengesWithoutCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("scraper", "secret123")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	mw.Handler(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != metricsRealm {
		t.Errorf("unexpected WWW-Authenticate header: %q", got)
	}
}

func TestMetricsAuthMiddleware_RejectsBadCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("scraper", "secret123")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := mw.Handler(handler)

	tests := []struct {
		name string
		user string
		pass string
		want int
	}{
		{"correct pair", "scraper", "secret123", http.StatusOK},
		{"wrong password", "scraper", "wrong", http.StatusUnauthorized},
		{"wrong username", "wrong", "secret123", http.StatusUnauthorized},
		{"both wrong", "wrong", "wrong", http.StatusUnauthorized},
		{"both empty", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, newMetricsAuthRequest(tt.user, tt.pass))

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestMetricsAuthMiddleware_RejectsMalformedAuthHeader(t *testing.T) {
	mw := NewMetricsAuthMiddleware("scraper", "secret123")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/metrics", nil)
	req.Header.Set("Authorization", "Basic notvalidbase64!!!")
	rec := httptest.NewRecorder()
	mw.Handler(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestMetricsAuthMiddleware_RejectsCredentialInjection(t *testing.T) {
	mw := NewMetricsAuthMiddleware("scraper", "secret123")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// CRLF smuggled inside the decoded credentials must not match.
	req := httptest.NewRequest("GET", "/metrics", nil)
	smuggled := base64.StdEncoding.EncodeToString([]byte("scraper:secret123\r\nX-Injected: header"))
	req.Header.Set("Authorization", "Basic "+smuggled)
	rec := httptest.NewRecorder()
	mw.Handler(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for injection attempt, got %d", rec.Code)
	}
}

func TestMetricsAuthMiddleware_DisabledWithoutConfig(t *testing.T) {
	mw := NewMetricsAuthMiddleware("", "")

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	mw.Handler(handler).ServeHTTP(rec, req)

	if !handlerCalled {
		t.Error("expected handler to be called when auth is disabled")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 when auth is disabled, got %d", rec.Code)
	}
}
