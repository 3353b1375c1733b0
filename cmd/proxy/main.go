package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/pal-assistant/internal/config"
	"github.com/spec-kit/pal-assistant/internal/observability"
	"github.com/spec-kit/pal-assistant/internal/proxy"
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

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(observability.RequestLogger(logger, nil))
	proxy.NewRelay(cfg.ServiceNow.HTTPTimeout(), logger).Register(app)

	go func() {
		logger.Info("proxy server running", zap.String("addr", cfg.Proxy.Addr()))
		if err := app.Listen(cfg.Proxy.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	_ = app.Shutdown()
}
