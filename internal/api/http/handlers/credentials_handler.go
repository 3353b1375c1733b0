package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pal-assistant/internal/api/dto"
	"github.com/spec-kit/pal-assistant/internal/service"
	apperrors "github.com/spec-kit/pal-assistant/pkg/util/errorutil"
)

// CredentialsHandler manages the stored ServiceNow credentials.
type CredentialsHandler struct {
	service *service.CredentialService
}

// NewCredentialsHandler constructs handler.
func NewCredentialsHandler(credentialService *service.CredentialService) *CredentialsHandler {
	return &CredentialsHandler{service: credentialService}
}

// Get GET /credentials.
func (h *CredentialsHandler) Get(c *fiber.Ctx) error {
	resp := dto.CredentialsResponse{Configured: h.service.IsConfigured()}
	if creds, ok := h.service.GetCredentials(c.UserContext()); ok {
		resp.Stored = true
		resp.BaseURL = creds.BaseURL
		resp.BearerToken = dto.MaskToken(creds.BearerToken)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Save PUT /credentials.
func (h *CredentialsHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveCredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SaveCredentials(c.UserContext(), req.BaseURL, req.BearerToken); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.CredentialsResponse{
		BaseURL:     req.BaseURL,
		BearerToken: dto.MaskToken(req.BearerToken),
		Stored:      true,
		Configured:  h.service.IsConfigured(),
	}})
}

// Clear DELETE /credentials.
func (h *CredentialsHandler) Clear(c *fiber.Ctx) error {
	if err := h.service.ClearCredentials(c.UserContext()); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
