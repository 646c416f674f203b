package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/deal-service/internal/api/dto"
	"github.com/spec-kit/deal-service/internal/events"
	"github.com/spec-kit/deal-service/internal/persistence"
	apperrors "github.com/spec-kit/deal-service/pkg/util"
)

// WebhookHandler manages the outbound dispatcher configuration. The endpoint
// URL is persisted in Redis so it survives restarts; persistence failures are
// logged but never fail the configuration call itself.
type WebhookHandler struct {
	dispatcher *events.WebhookDispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(dispatcher *events.WebhookDispatcher, redis *persistence.Redis, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, redis: redis, logger: logger}
}

// GetConfig GET /integrations/webhook.
func (h *WebhookHandler) GetConfig(c *fiber.Ctx) error {
	cfg := h.dispatcher.Config()
	return c.JSON(fiber.Map{"data": dto.WebhookConfigResponse{
		Endpoint: cfg.Endpoint,
		Enabled:  cfg.Enabled,
	}})
}

// Configure PUT /integrations/webhook.
func (h *WebhookHandler) Configure(c *fiber.Ctx) error {
	var req dto.ConfigureWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	url := strings.TrimSpace(req.URL)
	if err := h.dispatcher.Configure(url); err != nil {
		return apperrors.NewValidationError("invalid webhook url", fiber.Map{"url": url})
	}
	if err := h.redis.SaveWebhookURL(c.Context(), url); err != nil {
		h.logger.Warn("unable to persist webhook url", zap.Error(err))
	}

	cfg := h.dispatcher.Config()
	return c.JSON(fiber.Map{"data": dto.WebhookConfigResponse{
		Endpoint: cfg.Endpoint,
		Enabled:  cfg.Enabled,
	}})
}

// Disable DELETE /integrations/webhook.
func (h *WebhookHandler) Disable(c *fiber.Ctx) error {
	h.dispatcher.Disable()
	if err := h.redis.SaveWebhookURL(c.Context(), ""); err != nil {
		h.logger.Warn("unable to clear persisted webhook url", zap.Error(err))
	}

	cfg := h.dispatcher.Config()
	return c.JSON(fiber.Map{"data": dto.WebhookConfigResponse{
		Endpoint: cfg.Endpoint,
		Enabled:  cfg.Enabled,
	}})
}
