package metrics

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// stubGaugeSource returns fixed counts, optionally failing every call.
type stubGaugeSource struct {
	users       int64
	submissions int64
	threads     map[string]int64
	emails      map[string]int64
	err         error
}

func (s *stubGaugeSource) CountUsers(ctx context.Context) (int64, error) {
	return s.users, s.err
}

func (s *stubGaugeSource) CountFormSubmissions(ctx context.Context) (int64, error) {
	return s.submissions, s.err
}

func (s *stubGaugeSource) CountThreadsByStatus(ctx context.Context, status string) (int64, error) {
	return s.threads[status], s.err
}

func (s *stubGaugeSource) CountEmailsByStatus(ctx context.Context, status string) (int64, error) {
	return s.emails[status], s.err
}

func TestWorkerSnapshot(t *testing.T) {
	source := &stubGaugeSource{
		users:       12,
		submissions: 7,
		threads:     map[string]int64{domain.ThreadStatusOpen: 5, domain.ThreadStatusClosed: 2},
		emails:      map[string]int64{domain.EmailStatusPending: 1, domain.EmailStatusQueued: 3, domain.EmailStatusDelivered: 9},
	}
	w := NewWorker(source, time.Minute, slog.New(slog.DiscardHandler))

	w.snapshot(context.Background())

	assert.Equal(t, float64(12), testutil.ToFloat64(UsersTotal))
	assert.Equal(t, float64(7), testutil.ToFloat64(FormSubmissionsTotal))
	assert.Equal(t, float64(5), testutil.ToFloat64(ThreadsByStatus.WithLabelValues(domain.ThreadStatusOpen)))
	assert.Equal(t, float64(2), testutil.ToFloat64(ThreadsByStatus.WithLabelValues(domain.ThreadStatusClosed)))
	assert.Equal(t, float64(9), testutil.ToFloat64(EmailsByStatus.WithLabelValues(domain.EmailStatusDelivered)))
}

func TestWorkerSnapshot_KeepsValuesOnError(t *testing.T) {
	source := &stubGaugeSource{
		users:   4,
		threads: map[string]int64{},
		emails:  map[string]int64{},
	}
	w := NewWorker(source, time.Minute, slog.New(slog.DiscardHandler))

	w.snapshot(context.Background())
	assert.Equal(t, float64(4), testutil.ToFloat64(UsersTotal))

	// A failing database must not zero the gauges.
	source.err = errors.New("connection refused")
	source.users = 0
	w.snapshot(context.Background())

	assert.Equal(t, float64(4), testutil.ToFloat64(UsersTotal))
}
