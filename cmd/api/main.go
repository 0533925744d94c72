package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fixora/helpdesk/internal/api/http"
	"github.com/fixora/helpdesk/internal/api/http/handlers"
	"github.com/fixora/helpdesk/internal/auth"
	"github.com/fixora/helpdesk/internal/classifier"
	"github.com/fixora/helpdesk/internal/config"
	"github.com/fixora/helpdesk/internal/events"
	"github.com/fixora/helpdesk/internal/notify"
	"github.com/fixora/helpdesk/internal/observability"
	"github.com/fixora/helpdesk/internal/persistence"
	"github.com/fixora/helpdesk/internal/repository"
	"github.com/fixora/helpdesk/internal/service"
	"github.com/fixora/helpdesk/internal/sla"
	"github.com/fixora/helpdesk/internal/worker"
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

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	policyRepo := repository.NewSLAPolicyRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	metricsRepo := repository.NewMetricsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	classifierClient := classifier.NewClient(cfg.Classifier, logger)
	slaCalculator := sla.NewCalculator(policyRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		DB:              pg,
		TicketRepo:      ticketRepo,
		ActivityRepo:    activityRepo,
		SLA:             slaCalculator,
		Classifier:      classifierClient,
		ClassifyTimeout: cfg.Classifier.Timeout(),
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	userService := service.NewUserService(userRepo)
	dashboardService := service.NewDashboardService(metricsRepo, redis, cfg.Dashboard.CacheTTL(), logger)

	notifier := notify.NewSlackNotifier(cfg.Slack, logger)
	worker.StartNotificationWorker(notifier, dispatcher)

	tokenManager := auth.NewTokenManager(cfg.Auth)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:      handlers.NewTicketsHandler(ticketService),
		Users:        handlers.NewUsersHandler(userService, tokenManager),
		Metrics:      handlers.NewMetricsHandler(dashboardService),
		Slack:        handlers.NewSlackHandler(userService, ticketService, cfg.Slack.SigningSecret, logger),
		TokenManager: tokenManager,
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
