package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pal-assistant/internal/api/dto"
	"github.com/spec-kit/pal-assistant/internal/domain"
	apperrors "github.com/spec-kit/pal-assistant/pkg/util/errorutil"
)

// TicketSource is satisfied by the ServiceNow adapter.
type TicketSource interface {
	IsConfigured() bool
	FetchIncidents(ctx context.Context) []domain.Ticket
	FetchRequests(ctx context.Context) []domain.Ticket
	FetchChanges(ctx context.Context) []domain.Ticket
	FetchAllTickets(ctx context.Context) []domain.Ticket
	FetchCustomIncidents(ctx context.Context, userID, token string) []domain.Ticket
	FetchDashboard(ctx context.Context, userID, token string) []domain.Ticket
}

// TicketsHandler serves read-only ticket listings.
type TicketsHandler struct {
	source TicketSource
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(source TicketSource) *TicketsHandler {
	return &TicketsHandler{source: source}
}

// ListAll GET /tickets.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.source.FetchAllTickets(c.UserContext())})
}

// ListIncidents GET /tickets/incidents.
func (h *TicketsHandler) ListIncidents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.source.FetchIncidents(c.UserContext())})
}

// ListRequests GET /tickets/requests.
func (h *TicketsHandler) ListRequests(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.source.FetchRequests(c.UserContext())})
}

// ListChanges GET /tickets/changes.
func (h *TicketsHandler) ListChanges(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.source.FetchChanges(c.UserContext())})
}

// ListCustom GET /tickets/custom?user_id=.
func (h *TicketsHandler) ListCustom(c *fiber.Ctx) error {
	userID, token, err := customFeedParams(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.source.FetchCustomIncidents(c.UserContext(), userID, token)})
}

// Dashboard GET /tickets/dashboard?user_id=.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	userID, token, err := customFeedParams(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Configured: h.source.IsConfigured(),
		Tickets:    h.source.FetchDashboard(c.UserContext(), userID, token),
	}})
}

func customFeedParams(c *fiber.Ctx) (string, string, error) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		return "", "", apperrors.NewValidationError("user_id required", nil)
	}
	return userID, c.Get(dto.CustomTokenHeader), nil
}
