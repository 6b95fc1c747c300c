package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	redisAdapter "github.com/invisiedge/Atreo-sub001/internal/adapter/cache/redis"
	"github.com/invisiedge/Atreo-sub001/internal/adapter/email"
	natsAdapter "github.com/invisiedge/Atreo-sub001/internal/adapter/messaging/nats"
	mongoRepo "github.com/invisiedge/Atreo-sub001/internal/adapter/repository/mongodb"
	"github.com/invisiedge/Atreo-sub001/internal/adapter/storage/s3"

	"github.com/invisiedge/Atreo-sub001/internal/config"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/router"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"

	// Platform
	"github.com/invisiedge/Atreo-sub001/internal/platform/auth"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
	"github.com/invisiedge/Atreo-sub001/internal/platform/secret"
	"github.com/invisiedge/Atreo-sub001/internal/platform/tracer"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Logger())
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Application starting...", zap.String("service_name", cfg.ServiceName))
	for _, warning := range cfg.Warnings() {
		appLogger.Warn(warning)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal("Application stopped with error", zap.Error(err))
	}
	appLogger.Info("Application shut down cleanly.")
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tp := tracer.InitTracer(cfg.Tracer(), appLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	// Metrics
	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)
	go func() {
		if err := metrics.StartMetricsServer(ctx, cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	// MongoDB
	mongoClient, db, err := mongoRepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		appLogger.Info("Disconnecting from MongoDB...")
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	// Redis
	redisClient, err := redisAdapter.NewClient(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	appLogger.Info("Connected to Redis", zap.String("address", cfg.RedisAddress))

	// NATS
	var bus natsAdapter.EventPublisher = natsAdapter.NoopPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			return err
		}
		bus = natsPublisher
	} else {
		appLogger.Info("NATS_URL is not set, domain events are discarded.")
	}
	publisher := natsAdapter.NewCountingPublisher(bus, metricsManager)
	defer publisher.Close()

	// Object storage
	storage, err := s3.NewS3Storage(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		return err
	}

	mailer := email.NewSMTPSender(email.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		SenderEmail: cfg.SMTPSender,
		SenderName:  cfg.SMTPSenderName,
	}, appLogger)

	sealer, err := secret.NewSealer(cfg.CredentialsPassphrase())
	if err != nil {
		return fmt.Errorf("failed to initialize credential sealer: %w", err)
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.ServiceName)
	otpStore := redisAdapter.NewOTPStore(redisClient, cfg.ServiceName, cfg.OTPTTL, cfg.OTPResendCooldown, cfg.OTPMaxAttempts)
	sessions := redisAdapter.NewSessionStore(redisClient)

	// Repositories
	orgRepo := mongoRepo.NewOrganizationRepository(db, appLogger)
	userRepo := mongoRepo.NewUserRepository(db, appLogger)
	employeeRepo := mongoRepo.NewEmployeeRepository(db, appLogger)
	toolRepo := mongoRepo.NewToolRepository(db, appLogger)
	invoiceRepo := mongoRepo.NewInvoiceRepository(db, appLogger)
	paymentRepo := mongoRepo.NewPaymentRepository(db, appLogger)
	assetRepo := mongoRepo.NewAssetRepository(db, appLogger)
	auditRepo := mongoRepo.NewAuditRepository(db, appLogger, cfg.AuditRetentionDays)

	// Usecases
	authUC := usecase.NewAuthUsecase(userRepo, otpStore, mailer, tokens, sessions,
		usecase.AuthConfig{OTPOnLogin: cfg.OTPOnLogin, OTPTTL: cfg.OTPTTL}, appLogger)
	fileUC := usecase.NewFileUsecase(storage, cfg.UploadMaxBytes, cfg.PresignedURLTTL, appLogger)
	invoiceUC := usecase.NewInvoiceUsecase(invoiceRepo, fileUC, publisher, appLogger)
	auditUC := usecase.NewAuditUsecase(auditRepo, publisher, appLogger)
	orgUC := usecase.NewOrganizationUsecase(orgRepo, userRepo, appLogger)
	userUC := usecase.NewUserUsecase(userRepo, orgRepo, publisher, appLogger)
	employeeUC := usecase.NewEmployeeUsecase(employeeRepo, fileUC, appLogger)
	toolUC := usecase.NewToolUsecase(toolRepo, sealer, appLogger)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, employeeRepo, invoiceUC, appLogger)
	assetUC := usecase.NewAssetUsecase(assetRepo, employeeRepo, appLogger)
	dashboardUC := usecase.NewDashboardUsecase(employeeRepo, invoiceRepo, paymentRepo, assetRepo, toolRepo, appLogger)

	if err := authUC.SeedSuperAdmin(ctx, cfg.SeedSuperAdminEmail, cfg.SeedSuperAdminPassword, cfg.SeedSuperAdminName); err != nil {
		return fmt.Errorf("failed to seed super-admin: %w", err)
	}

	// HTTP
	auditor := middleware.NewAuditor(auditUC, metricsManager, appLogger)
	loginLimiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.LoginRatePerMin), appLogger)
	defer loginLimiter.Stop()
	mw := &router.Middlewares{
		Auth:         middleware.JWTAuth(authUC, appLogger),
		Guard:        middleware.NewGuard(metricsManager, appLogger),
		Auditor:      auditor,
		LoginLimiter: loginLimiter,
	}

	mux := router.NewMux(cfg.AllowedOrigins(), appLogger, metricsManager)
	router.SetupHealthRoutes(mux, handler.NewHealthHandler(mongoRepo.NewPinger(mongoClient), appLogger))
	router.SetupAuthRoutes(mux, handler.NewAuthHandler(authUC, auditor, metricsManager, appLogger), mw)
	router.SetupOrganizationRoutes(mux, handler.NewOrganizationHandler(orgUC, appLogger), mw)
	router.SetupUserRoutes(mux, handler.NewUserHandler(userUC, appLogger), mw)
	router.SetupEmployeeRoutes(mux, handler.NewEmployeeHandler(employeeUC, auditor, metricsManager, cfg.UploadMaxBytes, appLogger), mw)
	router.SetupToolRoutes(mux, handler.NewToolHandler(toolUC, auditor, appLogger), mw)
	router.SetupInvoiceRoutes(mux, handler.NewInvoiceHandler(invoiceUC, auditor, metricsManager, cfg.UploadMaxBytes, appLogger), mw)
	router.SetupPaymentRoutes(mux, handler.NewPaymentHandler(paymentUC, appLogger), mw)
	router.SetupAssetRoutes(mux, handler.NewAssetHandler(assetUC, appLogger), mw)
	router.SetupFileRoutes(mux, handler.NewFileHandler(fileUC, auditor, metricsManager, appLogger), mw)
	router.SetupDashboardRoutes(mux, handler.NewDashboardHandler(dashboardUC, appLogger), mw)
	router.SetupAuditRoutes(mux, handler.NewAuditHandler(auditUC, appLogger), mw)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           otelhttp.NewHandler(mux, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		appLogger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()
	appLogger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}
