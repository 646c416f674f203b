package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/deal-service/internal/api/dto"
	"github.com/spec-kit/deal-service/internal/queue"
	"github.com/spec-kit/deal-service/internal/store"
)

// QueueHandler serves the derived smart queue worklist. The queue is
// recomputed from current deal state on every request; it holds no state.
type QueueHandler struct {
	store *store.DealStore

	// Now is the evaluation clock; overridable in tests.
	Now func() time.Time
}

// NewQueueHandler constructs handler.
func NewQueueHandler(dealStore *store.DealStore) *QueueHandler {
	return &QueueHandler{store: dealStore, Now: time.Now}
}

// GetQueue GET /queue.
func (h *QueueHandler) GetQueue(c *fiber.Ctx) error {
	items := queue.Evaluate(h.store.List(), h.Now())
	return c.JSON(fiber.Map{"data": dto.QueueResponse{
		Items:       items,
		UrgentCount: queue.UrgentCount(items),
		TotalCount:  len(items),
	}})
}
