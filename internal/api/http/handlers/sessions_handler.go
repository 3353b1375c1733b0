package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pal-assistant/internal/api/dto"
	"github.com/spec-kit/pal-assistant/internal/auth"
	apperrors "github.com/spec-kit/pal-assistant/pkg/util/errorutil"
)

// SessionsHandler issues assistant session tokens.
type SessionsHandler struct {
	tokens *auth.TokenManager
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(tokens *auth.TokenManager) *SessionsHandler {
	return &SessionsHandler{tokens: tokens}
}

// Create POST /sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	session, token, err := h.tokens.NewSession()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SessionResponse{
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}})
}
