package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/e-wheels/workshop-service/internal/api/http"
	"github.com/e-wheels/workshop-service/internal/api/http/handlers"
	"github.com/e-wheels/workshop-service/internal/auth"
	"github.com/e-wheels/workshop-service/internal/blob"
	"github.com/e-wheels/workshop-service/internal/config"
	"github.com/e-wheels/workshop-service/internal/events"
	"github.com/e-wheels/workshop-service/internal/observability"
	"github.com/e-wheels/workshop-service/internal/persistence"
	"github.com/e-wheels/workshop-service/internal/repository"
	"github.com/e-wheels/workshop-service/internal/service"
	"github.com/e-wheels/workshop-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	blobs, err := blob.NewMinioStore(ctx, cfg.Blob, logger)
	if err != nil {
		logger.Fatal("failed to connect object store", zap.Error(err))
	}

	store := repository.NewStore(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	numbers := persistence.NewTicketNumberGenerator(redis, logger)

	authService := service.NewAuthService(cfg.Auth, store.Technicians(), logger)
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapPassword); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	ticketService := service.NewTicketService(store, numbers, dispatcher)
	triageService := service.NewTriageService(store, dispatcher)
	lifecycleService := service.NewLifecycleService(store, dispatcher)
	attachmentService := service.NewAttachmentService(store, blobs, cfg.Blob, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), store.Technicians())

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 32 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, triageService, lifecycleService),
		Cases:          handlers.NewCasesHandler(ticketService, lifecycleService),
		Attachments:    handlers.NewAttachmentsHandler(attachmentService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
