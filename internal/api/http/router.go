package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pal-assistant/internal/api/http/handlers"
	"github.com/spec-kit/pal-assistant/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Tickets           *handlers.TicketsHandler
	Credentials       *handlers.CredentialsHandler
	Sessions          *handlers.SessionsHandler
	Assistant         *handlers.AssistantHandler
	Metrics           *handlers.MetricsHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Get)
	}

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListAll)
	tickets.Get("/incidents", cfg.Tickets.ListIncidents)
	tickets.Get("/requests", cfg.Tickets.ListRequests)
	tickets.Get("/changes", cfg.Tickets.ListChanges)
	tickets.Get("/custom", cfg.Tickets.ListCustom)
	tickets.Get("/dashboard", cfg.Tickets.Dashboard)

	credentials := app.Group("/credentials")
	credentials.Get("/", cfg.Credentials.Get)
	credentials.Put("/", cfg.Credentials.Save)
	credentials.Delete("/", cfg.Credentials.Clear)

	app.Post("/sessions", cfg.Sessions.Create)

	assistant := app.Group("/assistant")
	assistant.Post("/grammar", cfg.Assistant.Grammar)

	messages := assistant.Group("/messages", cfg.SessionMiddleware.Handle)
	messages.Post("/", cfg.Assistant.Send)
	messages.Get("/", cfg.Assistant.History)
	messages.Delete("/", cfg.Assistant.Clear)
}
