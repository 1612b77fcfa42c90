package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arkology/forgetme/internal"
	"github.com/arkology/forgetme/internal/handler"
	"github.com/arkology/forgetme/internal/mail"
	"github.com/arkology/forgetme/internal/metrics"
	"github.com/arkology/forgetme/internal/middleware"
	"github.com/arkology/forgetme/internal/registry"
	"github.com/arkology/forgetme/internal/repository"
	"github.com/arkology/forgetme/internal/service"
	"github.com/arkology/forgetme/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository and registry
	repo := repository.New(db)
	reg := registry.New()

	// Initialize storage backend
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	// Initialize mail client
	sender, err := mail.NewMailgunSender(mail.Config{
		APIKey:           cfg.MailgunAPIKey,
		Domain:           cfg.MailgunDomain,
		FromEmail:        cfg.OrganisationFromEmail,
		DevMode:          cfg.DevMode,
		DevRedirectEmail: cfg.DevRedirectEmail,
	}, logger)
	if err != nil {
		return fmt.Errorf("mail client initialization failed: %w", err)
	}

	// Initialize services
	submissionService := service.NewSubmissionService(db, repo, reg, sender, logger)
	verificationService := service.NewVerificationService(repo, sender, logger)
	signatureService := service.NewSignatureService(store, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	verificationLimiter := middleware.NewVerificationRateLimiter(cfg.VerificationRateLimit, cfg.VerificationRateWindow, logger)

	// Initialize handlers
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	verificationHandler := handler.NewVerificationHandler(verificationService, logger)
	signatureHandler := handler.NewSignatureHandler(signatureService, logger)
	organisationHandler := handler.NewOrganisationHandler(reg, logger)
	webhookHandler := handler.NewWebhookHandler(cfg.MailgunWebhookSigningKey, repo, sender, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Locally stored signature images (development storage)
	if cfg.StorageProvider == storage.ProviderLocal {
		filesFS := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", filesFS))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics endpoint, behind basic auth when configured
	metricsHandler := http.Handler(promhttp.Handler())
	if cfg.MetricsUsername != "" && cfg.MetricsPassword != "" {
		metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
		metricsHandler = metricsAuth.Handler(metricsHandler)
	} else {
		logger.Warn("metrics endpoint is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}
	mux.Handle("GET /metrics", metricsHandler)

	// API routes
	submissionHandler.RegisterRoutes(mux)
	signatureHandler.RegisterRoutes(mux)
	organisationHandler.RegisterRoutes(mux)
	webhookHandler.RegisterRoutes(mux)
	verificationHandler.RegisterRoutes(mux, verificationLimiter.LimitCodeRequests)

	// Background loops: expired-token sweeping and database gauge snapshots.
	backgroundCtx, cancelBackground := context.WithCancel(ctx)
	defer cancelBackground()
	go sweepExpiredTokens(backgroundCtx, verificationService, logger)
	go metrics.NewWorker(repo, time.Minute, logger).Run(backgroundCtx)

	// Compose the outer middleware stack
	stack := middleware.Stack(
		securityMw.Handler,
		loggingMw.Handler,
		metrics.Middleware,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: stack(mux),
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage builds the configured storage backend.
func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case storage.ProviderR2:
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
}

// sweepExpiredTokens deletes expired verification tokens once an hour.
func sweepExpiredTokens(ctx context.Context, verification service.VerificationService, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := verification.DeleteExpiredTokens(ctx); err != nil {
				logger.Error("expired token sweep failed", "error", err)
			}
		}
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
