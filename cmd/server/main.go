package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"holdops/internal/accounting/quickbooks"
	"holdops/internal/chat/claude"
	"holdops/internal/config"
	"holdops/internal/email"
	"holdops/internal/handler"
	"holdops/internal/logger"
	"holdops/internal/middleware"
	"holdops/internal/port"
	"holdops/internal/repository/postgres"
	"holdops/internal/router"
	"holdops/internal/service"
	googlesheets "holdops/internal/sheets/google"
	s3storage "holdops/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if len(cfg.Companies) == 0 {
		zlog.Warn("no companies configured; set HOLDOPS_COMPANIES")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	kvRepo := postgres.NewKVRepo(db)

	// Initialize upstream clients
	fetcher := quickbooks.NewClient(quickbooks.Config{
		BaseURL:          cfg.Accounting.BaseURL,
		MinorVersion:     cfg.Accounting.MinorVersion,
		AccountingMethod: cfg.Accounting.AccountingMethod,
		Timeout:          cfg.Accounting.Timeout,
		MaxElapsed:       cfg.Accounting.MaxElapsed,
	}, kvRepo, zlog.Named("quickbooks"))

	var chat port.ChatCompleter
	if cfg.Chat.APIKey != "" {
		chat = claude.NewClient(&cfg.Chat)
	} else {
		zlog.Info("chat disabled: HOLDOPS_CHAT_API_KEY not set")
	}

	var sheets port.SpreadsheetClient
	if cfg.Sheets.Enabled() {
		client, err := googlesheets.New(ctx, &cfg.Sheets, zlog.Named("sheets"))
		if err != nil {
			return fmt.Errorf("failed to initialize sheets client: %w", err)
		}
		sheets = client
	} else {
		zlog.Info("sheets disabled: no credentials configured")
	}

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	sender, err := email.NewSender(ctx, &cfg.Email, zlog.Named("email"))
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize services
	reportSvc := service.NewReportService(cfg.Companies, fetcher, kvRepo, service.ReportServiceConfig{
		SnapshotTTL: cfg.Accounting.SnapshotTTL,
		Concurrency: cfg.Accounting.Concurrency,
	}, zlog.Named("reports"))
	exportSvc := service.NewExportService(reportSvc, storage, sheets, service.ExportServiceConfig{
		Bucket:        cfg.S3.Bucket,
		PresignExpiry: cfg.S3.PresignExpiry,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
	}, zlog.Named("export"))
	digestSvc := service.NewDigestService(cfg.Companies, fetcher, kvRepo, sender, chat, service.DigestServiceConfig{
		Recipients:  cfg.Digest.Recipients,
		Narrative:   cfg.Digest.Narrative,
		Concurrency: cfg.Accounting.Concurrency,
	}, zlog.Named("digest"))
	chatSvc := service.NewChatService(cfg.Companies, chat, kvRepo, zlog.Named("chat"))
	kvSvc := service.NewKVService(kvRepo)
	tokenSvc := service.NewTokenService(cfg.Auth)

	// Initialize handlers
	companyH := handler.NewCompanyHandler(reportSvc)
	reportH := handler.NewReportHandler(reportSvc, exportSvc)
	digestH := handler.NewDigestHandler(digestSvc)
	chatH := handler.NewChatHandler(chatSvc)
	kvH := handler.NewKVHandler(kvSvc)
	healthH := handler.NewHealthHandler(db)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, zlog.Named("ratelimit"))
		go limiter.RunSweeper(ctx.Done(), 5*time.Minute)
	}

	if cfg.Accounting.RefreshInterval > 0 {
		refresher := service.NewSnapshotRefresher(reportSvc, kvRepo, service.SnapshotRefresherConfig{
			Interval:    cfg.Accounting.RefreshInterval,
			Concurrency: cfg.Accounting.Concurrency,
		}, zlog.Named("refresher"))
		go refresher.Start(ctx)
	}

	// Setup router
	r := router.Setup(cfg, zlog, tokenSvc, limiter, companyH, reportH, digestH, chatH, kvH, healthH)

	srv := newHTTPServer(cfg.Server, r)

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
			zap.Int("companies", len(cfg.Companies)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			zlog.Warn("shutdown timed out; forcing close")
			_ = srv.Close()
		}
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	zlog.Info("server stopped")
	return nil
}

func newHTTPServer(cfg config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Port,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
}
