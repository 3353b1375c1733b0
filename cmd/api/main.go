package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pal-assistant/internal/api/http"
	"github.com/spec-kit/pal-assistant/internal/api/http/handlers"
	"github.com/spec-kit/pal-assistant/internal/assistant"
	"github.com/spec-kit/pal-assistant/internal/auth"
	"github.com/spec-kit/pal-assistant/internal/config"
	"github.com/spec-kit/pal-assistant/internal/events"
	"github.com/spec-kit/pal-assistant/internal/observability"
	"github.com/spec-kit/pal-assistant/internal/persistence"
	"github.com/spec-kit/pal-assistant/internal/repository"
	"github.com/spec-kit/pal-assistant/internal/service"
	"github.com/spec-kit/pal-assistant/internal/servicenow"
	"github.com/spec-kit/pal-assistant/internal/worker"
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(events.WithLogger(logger.Named("events")))
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	httpClient := &http.Client{Timeout: cfg.ServiceNow.HTTPTimeout()}
	adapter := servicenow.NewAdapter(servicenow.Options{
		ProxyURL:           cfg.ServiceNow.ProxyURL,
		CustomIncidentsURL: cfg.ServiceNow.CustomIncidentsURL,
		HTTPClient:         httpClient,
	}, logger.Named("servicenow"))

	credentialService := service.NewCredentialService(
		persistence.NewKeyValueStore(redis),
		cfg.ServiceNow.CredentialsStoreKey,
		adapter,
		dispatcher,
		logger.Named("credentials"),
	)
	credentialService.Initialize(ctx)

	// A nil Completer keeps the assistant on local responses.
	var completer assistant.Completer
	if cfg.Assistant.APIKey != "" {
		completer = assistant.NewGeminiClient(cfg.Assistant.Endpoint, cfg.Assistant.Model, cfg.Assistant.APIKey, httpClient)
	} else {
		logger.Warn("GEMINI_API_KEY not provided; assistant will answer from local responses")
	}

	assistantLogger := logger.Named("assistant")
	conversationService := service.NewConversationService(service.ConversationDependencies{
		TurnRepo:   repository.NewTurnRepository(pg.PoolHandle()),
		Responder:  assistant.NewDispatcher(assistant.Options{Completer: completer, Logger: assistantLogger}),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     assistantLogger,
	})
	grammar := assistant.NewGrammarRewriter(completer, assistantLogger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTL())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		RequestTimeout:   cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:           handlers.NewTicketsHandler(adapter),
		Credentials:       handlers.NewCredentialsHandler(credentialService),
		Sessions:          handlers.NewSessionsHandler(tokens),
		Assistant:         handlers.NewAssistantHandler(conversationService, grammar),
		Metrics:           handlers.NewMetricsHandler(metrics),
		SessionMiddleware: auth.NewSessionMiddleware(tokens),
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
