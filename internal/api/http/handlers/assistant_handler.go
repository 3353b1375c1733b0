package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pal-assistant/internal/api/dto"
	"github.com/spec-kit/pal-assistant/internal/auth"
	"github.com/spec-kit/pal-assistant/internal/service"
	apperrors "github.com/spec-kit/pal-assistant/pkg/util/errorutil"
)

// Rewriter turns informal text into a business message.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) string
}

// AssistantHandler serves the conversation and grammar endpoints.
type AssistantHandler struct {
	conversations *service.ConversationService
	rewriter      Rewriter
}

// NewAssistantHandler constructs handler.
func NewAssistantHandler(conversations *service.ConversationService, rewriter Rewriter) *AssistantHandler {
	return &AssistantHandler{conversations: conversations, rewriter: rewriter}
}

// Send POST /assistant/messages.
func (h *AssistantHandler) Send(c *fiber.Ctx) error {
	sessionID, ok := auth.SessionIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	text, err := parseText(c)
	if err != nil {
		return err
	}

	userTurn, reply, err := h.conversations.Ask(c.UserContext(), sessionID, text)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ExchangeResponse{
		User:      dto.NewTurnResponse(userTurn),
		Assistant: dto.NewTurnResponse(reply),
	}})
}

// History GET /assistant/messages.
func (h *AssistantHandler) History(c *fiber.Ctx) error {
	sessionID, ok := auth.SessionIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	turns, err := h.conversations.History(c.UserContext(), sessionID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTurnResponses(turns)})
}

// Clear DELETE /assistant/messages.
func (h *AssistantHandler) Clear(c *fiber.Ctx) error {
	sessionID, ok := auth.SessionIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	if err := h.conversations.Clear(c.UserContext(), sessionID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Grammar POST /assistant/grammar.
func (h *AssistantHandler) Grammar(c *fiber.Ctx) error {
	text, err := parseText(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.GrammarResponse{Text: h.rewriter.Rewrite(c.UserContext(), text)}})
}

func parseText(c *fiber.Ctx) (string, error) {
	var req dto.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return "", apperrors.NewValidationError("invalid payload", nil)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", apperrors.NewValidationError("text required", nil)
	}
	return text, nil
}
