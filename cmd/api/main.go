package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/billy93/E-Learning-sub000/internal/config"
	"github.com/billy93/E-Learning-sub000/internal/database"
	"github.com/billy93/E-Learning-sub000/internal/handler"
	"github.com/billy93/E-Learning-sub000/internal/middleware"
	"github.com/billy93/E-Learning-sub000/internal/repository"
	"github.com/billy93/E-Learning-sub000/internal/router"
	"github.com/billy93/E-Learning-sub000/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level).With().Str("app", cfg.AppName).Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, cfg.AppEnv == "development")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, rollup caching disabled")
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to nats")
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	store := repository.NewStore(db)
	activityRepo := repository.NewActivityLogRepository(db)

	progressService := service.NewProgressService(store, validate, cfg.PersistProgress, logger)
	rollupService := service.NewRollupService(store, redisClient, cfg.ProgressCacheTTL, cfg.LeaderboardSize, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	publisher := service.NewNATSProgressPublisher(natsConn, cfg.NATSSubject, logger)
	eventService := service.NewEventService(store, service.EventDependencies{
		Progress:  progressService,
		Rollups:   rollupService,
		Publisher: publisher,
		Activity:  activityService,
	}, validate, logger)
	exportService := service.NewExportService(rollupService, logger)

	eventLimiter := middleware.RateLimit("events", cfg.EventsPerMinute, time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.AllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		ProgressHandler: handler.NewProgressHandler(progressService, logger),
		RollupHandler:   handler.NewRollupHandler(rollupService, logger),
		EventHandler:    handler.NewEventHandler(eventService, eventLimiter, logger),
		ExportHandler:   handler.NewExportHandler(exportService, logger),
		ActivityHandler: handler.NewAdminActivityHandler(activityService, logger),
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Bool("persist_progress", cfg.PersistProgress).Msg("server started")

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
