package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/arkology/forgetme/internal/domain"
)

// GaugeSource provides the point-in-time database counts the worker
// snapshots. Satisfied by *repository.Queries.
type GaugeSource interface {
	CountUsers(ctx context.Context) (int64, error)
	CountFormSubmissions(ctx context.Context) (int64, error)
	CountThreadsByStatus(ctx context.Context, status string) (int64, error)
	CountEmailsByStatus(ctx context.Context, status string) (int64, error)
}

// Worker periodically refreshes the database gauges. A failed count leaves
// the previous gauge value in place rather than zeroing it.
type Worker struct {
	source   GaugeSource
	interval time.Duration
	logger   *slog.Logger
}

// NewWorker creates a gauge worker.
func NewWorker(source GaugeSource, interval time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Run refreshes the gauges on the configured interval until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.snapshot(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.snapshot(ctx)
		}
	}
}

// snapshot refreshes every database gauge once.
func (w *Worker) snapshot(ctx context.Context) {
	if n, err := w.source.CountUsers(ctx); err != nil {
		w.logger.Warn("metrics snapshot: count users failed", "error", err)
	} else {
		UsersTotal.Set(float64(n))
	}

	if n, err := w.source.CountFormSubmissions(ctx); err != nil {
		w.logger.Warn("metrics snapshot: count form submissions failed", "error", err)
	} else {
		FormSubmissionsTotal.Set(float64(n))
	}

	for _, status := range []string{domain.ThreadStatusOpen, domain.ThreadStatusClosed} {
		if n, err := w.source.CountThreadsByStatus(ctx, status); err != nil {
			w.logger.Warn("metrics snapshot: count threads failed", "status", status, "error", err)
		} else {
			ThreadsByStatus.WithLabelValues(status).Set(float64(n))
		}
	}

	for _, status := range []string{domain.EmailStatusPending, domain.EmailStatusQueued, domain.EmailStatusDelivered} {
		if n, err := w.source.CountEmailsByStatus(ctx, status); err != nil {
			w.logger.Warn("metrics snapshot: count emails failed", "status", status, "error", err)
		} else {
			EmailsByStatus.WithLabelValues(status).Set(float64(n))
		}
	}
}
