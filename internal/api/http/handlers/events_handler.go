package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/deal-service/internal/events"
)

// EventsHandler exposes the event history read model for diagnostics.
type EventsHandler struct {
	recorder *events.Recorder
}

// NewEventsHandler constructs handler.
func NewEventsHandler(recorder *events.Recorder) *EventsHandler {
	return &EventsHandler{recorder: recorder}
}

// ListEvents GET /events.
func (h *EventsHandler) ListEvents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.recorder.History()})
}
