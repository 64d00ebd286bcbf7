package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/aurelia-concierge/vetting-service/internal/api/http"
	"github.com/aurelia-concierge/vetting-service/internal/api/http/handlers"
	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/config"
	"github.com/aurelia-concierge/vetting-service/internal/events"
	"github.com/aurelia-concierge/vetting-service/internal/observability"
	"github.com/aurelia-concierge/vetting-service/internal/persistence"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	"github.com/aurelia-concierge/vetting-service/internal/service"
	"github.com/aurelia-concierge/vetting-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("AUTH_JWT_SECRET not set; token issuance will fail with CONFIG_ERROR")
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var repos repository.Repositories
	var pgPinger handlers.Pinger
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = repository.NewPostgresRepositories(pg.Pool)
		pgPinger = pg
	} else {
		repos = repository.NewMemoryStore().Repositories()
	}

	if cfg.App.SeedDemoData {
		if err := persistence.SeedDemoData(ctx, repos, cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var revocations auth.RevocationList
	if cfg.Auth.RevocationEnabled {
		revocations = auth.NewRedisRevocationList(redis.Client)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	publisher := events.NewRedisPublisher(redis.Client, cfg.Events.RedisChannel)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, publisher, metrics, logger), logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Repos:       repos,
		Tokens:      tokens,
		Revocations: revocations,
	})
	authenticator := auth.NewAuthenticator(tokens, repos.Principals, repos.Permissions, repos.Officers, revocations, logger)

	vettingDeps := service.VettingDependencies{
		Repos:             repos,
		Dispatcher:        dispatcher,
		StrictTransitions: cfg.Vetting.StrictTransitions,
	}
	vettingService := service.NewVettingService(vettingDeps)
	taskService := service.NewTaskService(vettingDeps)
	overviewService := service.NewOverviewService(repos)
	directoryService := service.NewDirectoryService(repos)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pgPinger, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Vetting:        handlers.NewVettingHandler(authService, vettingService, taskService),
		Admin:          handlers.NewAdminVettingHandler(vettingService, overviewService),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		DevAdmin:       handlers.NewDevAdminHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authenticator),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
