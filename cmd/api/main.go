package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/config"
	"github.com/safespender/safespender-backend/internal/handler"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/repository/postgres"
	"github.com/safespender/safespender-backend/internal/repository/storage"
	"github.com/safespender/safespender-backend/internal/service"
	"github.com/safespender/safespender-backend/internal/websocket"
)

// @title SafeSpender API
// @version 1.0
// @description Safe-to-spend projections over salary, recurring expenses, transactions and savings goals.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Connect to database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	// Object storage backs goal pictures and exports; both are disabled without it
	var objectStore storage.ObjectStore
	storeCtx, cancelStore := context.WithTimeout(ctx, 10*time.Second)
	s3Store, err := storage.NewS3ObjectStore(storeCtx, cfg.S3)
	cancelStore()
	if err != nil {
		log.Warn().Err(err).Str("bucket", cfg.S3.Bucket).Msg("Object storage unavailable, uploads and exports disabled")
	} else {
		objectStore = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Connected to object storage")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	goalRepo := postgres.NewSavingsGoalRepository(pool)
	salaryRepo := postgres.NewSalaryScheduleRepository(pool)

	// Event hub for realtime invalidation
	hub := websocket.NewHub()

	// Initialize services
	opts := cfg.ProjectionOptions()
	authService := service.NewAuthService(userRepo, workspaceRepo)
	profileService := service.NewProfileService(profileRepo)
	transactionService := service.NewTransactionService(transactionRepo, goalRepo)
	expenseService := service.NewExpenseService(expenseRepo)
	salaryService := service.NewSalaryService(salaryRepo)

	store := service.NewRecordStore(transactionRepo, expenseRepo, goalRepo, salaryRepo, profileService)
	summaryService := service.NewSummaryService(store, opts)
	calendarService := service.NewCalendarService(store, transactionService, opts)
	goalService := service.NewSavingsGoalService(goalRepo, transactionRepo, summaryService, service.NewImageService(objectStore))
	exportService := service.NewExportService(calendarService, summaryService, objectStore, cfg.Export.URLTTL)

	profileService.SetEventPublisher(hub)
	transactionService.SetEventPublisher(hub)
	expenseService.SetEventPublisher(hub)
	salaryService.SetEventPublisher(hub)
	goalService.SetEventPublisher(hub)

	// Create workspace provider adapter for auth middleware and the event feed
	workspaceProvider := &workspaceProviderAdapter{authService: authService}

	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket token validator")
	}

	exportLimiter := middleware.NewRateLimiterWithConfig(cfg.Export.RateLimitPerMin, middleware.DefaultBurstSize)
	defer exportLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	handler.RegisterRoutes(e, authMiddleware, handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Profile:      handler.NewProfileHandler(profileService),
		Transaction:  handler.NewTransactionHandler(transactionService),
		Expense:      handler.NewExpenseHandler(expenseService),
		SavingsGoal:  handler.NewSavingsGoalHandler(goalService),
		Salary:       handler.NewSalaryHandler(salaryService),
		Summary:      handler.NewSummaryHandler(summaryService),
		Calendar:     handler.NewCalendarHandler(calendarService),
		Export:       handler.NewExportHandler(exportService, summaryService),
		WebSocket:    handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins),
		OpenAPI:      handler.NewOpenAPIHandler(nil),
		ExportLimits: exportLimiter,
	})

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// hijacked websocket connections are not tracked by e.Shutdown
	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// workspaceProviderAdapter adapts AuthService to middleware.WorkspaceProvider
// and websocket.WorkspaceLookup
type workspaceProviderAdapter struct {
	authService *service.AuthService
}

func (a *workspaceProviderAdapter) GetWorkspaceByAuth0ID(auth0ID string) (int32, error) {
	workspace, err := a.authService.GetWorkspaceByAuth0ID(auth0ID)
	if err != nil {
		return 0, err
	}
	return workspace.ID, nil
}
