package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/deal-service/internal/api/http/handlers"
	"github.com/spec-kit/deal-service/internal/auth"
	"github.com/spec-kit/deal-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Deals          *handlers.DealsHandler
	Queue          *handlers.QueueHandler
	Events         *handlers.EventsHandler
	Webhook        *handlers.WebhookHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	deals := app.Group("/deals", cfg.AuthMiddleware.Handle, auth.RequireRole())
	deals.Post("", cfg.Deals.CreateDeal)
	deals.Get("", cfg.Deals.ListDeals)
	deals.Get("/:id", cfg.Deals.GetDeal)
	deals.Post("/:id/phase", cfg.Deals.ChangePhase)
	deals.Post("/:id/substatus", cfg.Deals.ChangeSubstatus)
	deals.Post("/:id/activities", cfg.Deals.AddActivity)
	deals.Post("/:id/payments/deposit", cfg.Deals.MarkDepositPaid)
	deals.Post("/:id/payments/full", cfg.Deals.MarkFullyPaid)
	deals.Post("/:id/delivery-date", cfg.Deals.SetDeliveryDate)
	deals.Post("/:id/test-ride", cfg.Deals.ScheduleTestRide)

	queueGroup := app.Group("/queue", cfg.AuthMiddleware.Handle, auth.RequireRole())
	queueGroup.Get("", cfg.Queue.GetQueue)

	eventsGroup := app.Group("/events", cfg.AuthMiddleware.Handle, auth.RequireRole())
	eventsGroup.Get("", cfg.Events.ListEvents)

	webhook := app.Group("/integrations/webhook", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleManager, domain.RoleAdministration))
	webhook.Get("", cfg.Webhook.GetConfig)
	webhook.Put("", cfg.Webhook.Configure)
	webhook.Delete("", cfg.Webhook.Disable)
}
