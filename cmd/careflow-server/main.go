package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/careflow/careflow/internal/config"
	"github.com/careflow/careflow/internal/domain/action"
	"github.com/careflow/careflow/internal/domain/dashboard"
	"github.com/careflow/careflow/internal/domain/patient"
	"github.com/careflow/careflow/internal/domain/session"
	"github.com/careflow/careflow/internal/domain/timeline"
	"github.com/careflow/careflow/internal/domain/workflow"
	"github.com/careflow/careflow/internal/platform/auth"
	"github.com/careflow/careflow/internal/platform/db"
	"github.com/careflow/careflow/internal/platform/middleware"
	"github.com/careflow/careflow/internal/platform/poll"
	"github.com/careflow/careflow/internal/platform/telemetry"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "careflow-server",
		Short: "Hospital workflow dashboard API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Telemetry
	provider := telemetry.NewProvider(telemetry.Config{
		ServiceName:    "careflow-server",
		ServiceVersion: version,
		Environment:    cfg.Env,
	})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(provider.MetricsMiddleware())

	// Repositories
	userRepo := session.NewUserRepoPG(pool)
	patientRepo := patient.NewPatientRepoPG(pool)
	actionRepo := action.NewActionRepoPG(pool)
	eventRepo := timeline.NewEventRepoPG(pool)

	// Services
	issuer := auth.NewTokenIssuer([]byte(cfg.AuthSigningKey), cfg.AuthTokenTTL)
	sessionSvc := session.NewService(userRepo, issuer)
	patientSvc := patient.NewService(patientRepo)
	timelineSvc := timeline.NewService(eventRepo)
	actionSvc := action.NewService(actionRepo, timelineSvc, logger)
	dashboardSvc := dashboard.NewService(patientRepo, actionRepo, eventRepo)

	// Handlers
	sessionHandler := session.NewHandler(sessionSvc, logger)
	patientHandler := patient.NewHandler(patientSvc)
	timelineHandler := timeline.NewHandler(timelineSvc)
	actionHandler := action.NewHandler(actionSvc)
	dashboardHandler := dashboard.NewHandler(dashboardSvc)

	// Public routes: login and operational endpoints stay outside auth.
	public := e.Group("/api/v1")
	sessionHandler.RegisterPublicRoutes(public)

	e.GET("/health", db.HealthHandler(pool))
	e.GET("/metrics", provider.PrometheusHandler())

	// Authenticated API group
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.Middleware([]byte(cfg.AuthSigningKey)))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Query cache: Redis when configured, in-process otherwise.
	var cacheStore middleware.CacheStore
	if cfg.RedisURL != "" {
		redisStore, err := middleware.NewRedisCacheStore(cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisStore.Close()
		cacheStore = redisStore
		logger.Info().Msg("query cache backed by redis")
	} else {
		memStore := middleware.NewInMemoryCacheStore()
		memStore.StartCleanup(ctx, time.Minute)
		cacheStore = memStore
	}
	apiV1.Use(middleware.QueryCache(middleware.QueryCacheConfig{
		Store:     cacheStore,
		TTL:       cfg.CacheTTL,
		SkipPaths: []string{"/api/v1/me", "/api/v1/auth"},
	}))

	sessionHandler.RegisterRoutes(apiV1)
	patientHandler.RegisterRoutes(apiV1)
	timelineHandler.RegisterRoutes(apiV1)
	actionHandler.RegisterRoutes(apiV1)
	dashboardHandler.RegisterRoutes(apiV1)

	// Background gauge refresh: the dashboard's polling clients read from
	// /metrics-adjacent gauges, so keep them warm off the request path.
	refreshCtx, refreshCancel := context.WithCancel(ctx)
	defer refreshCancel()
	refresher := poll.New("stats-refresh", cfg.RefreshInterval, cfg.RefreshJitter, logger, func(ctx context.Context) error {
		totalPatients, err := patientRepo.Count(ctx)
		if err != nil {
			return err
		}
		statusCounts, err := actionRepo.StatusCounts(ctx)
		if err != nil {
			return err
		}
		var pending, inProgress, completed int64
		for status, n := range statusCounts {
			switch {
			case status == "Pending":
				pending += int64(n)
			case workflow.IsInProgress(status):
				inProgress += int64(n)
			case workflow.IsCompleted(status):
				completed += int64(n)
			}
		}
		provider.SetGauge("careflow.patients.total", int64(totalPatients))
		provider.SetGauge("careflow.actions.pending", pending)
		provider.SetGauge("careflow.actions.in_progress", inProgress)
		provider.SetGauge("careflow.actions.completed", completed)

		stats := db.GetPoolStats(pool)
		provider.SetGauge("db.pool.active_connections", int64(stats.AcquiredConns))
		provider.SetGauge("db.pool.idle_connections", int64(stats.IdleConns))
		return nil
	})
	go refresher.Run(refreshCtx)

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
