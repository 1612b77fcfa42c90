package middleware

import (
	"crypto/subtle"
	"net/http"
)

// metricsRealm is sent in the WWW-Authenticate challenge.
const metricsRealm = `Basic realm="forgetme metrics"`

// MetricsAuthMiddleware gates the Prometheus scrape endpoint behind basic
// auth. The endpoint exposes submission and delivery counts, which are not
// public information.
type MetricsAuthMiddleware struct {
	username string
	password string
	enabled  bool
}

// NewMetricsAuthMiddleware creates the metrics auth middleware. With both
// credentials empty, authentication is disabled (local development).
func NewMetricsAuthMiddleware(username, password string) *MetricsAuthMiddleware {
	return &MetricsAuthMiddleware{
		username: username,
		password: password,
		enabled:  username != "" || password != "",
	}
}

// Handler returns middleware that requires basic authentication.
func (m *MetricsAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok {
			m.unauthorized(w)
			return
		}

		// Constant-time compares; both run regardless of the first result.
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(m.username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(m.password)) == 1

		if !userMatch || !passMatch {
			m.unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *MetricsAuthMiddleware) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", metricsRealm)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
