package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/deal-service/internal/api/http"
	"github.com/spec-kit/deal-service/internal/api/http/handlers"
	"github.com/spec-kit/deal-service/internal/auth"
	"github.com/spec-kit/deal-service/internal/config"
	"github.com/spec-kit/deal-service/internal/events"
	"github.com/spec-kit/deal-service/internal/observability"
	"github.com/spec-kit/deal-service/internal/persistence"
	"github.com/spec-kit/deal-service/internal/seed"
	"github.com/spec-kit/deal-service/internal/store"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewWebhookDispatcher(logger, cfg.Webhook.Timeout())
	restoreWebhook(cfg, redis, dispatcher, logger)

	recorder := events.NewRecorder(dispatcher, logger)
	dealStore := store.New(recorder, logger)
	if err := loadSeed(cfg, dealStore); err != nil {
		logger.Fatal("failed to seed deal store", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Deals:          handlers.NewDealsHandler(dealStore),
		Queue:          handlers.NewQueueHandler(dealStore),
		Events:         handlers.NewEventsHandler(recorder),
		Webhook:        handlers.NewWebhookHandler(dispatcher, redis, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// restoreWebhook applies the endpoint from the environment or, failing that,
// the one persisted in Redis. Invalid stored URLs are discarded.
func restoreWebhook(cfg *config.Config, redis *persistence.Redis, dispatcher *events.WebhookDispatcher, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if cfg.Webhook.URL != "" {
		if err := dispatcher.Configure(cfg.Webhook.URL); err != nil {
			logger.Warn("invalid WEBHOOK_URL, dispatch stays disabled", zap.Error(err))
		}
		return
	}

	saved, err := redis.LoadWebhookURL(ctx)
	if err != nil {
		logger.Warn("unable to load persisted webhook url", zap.Error(err))
		return
	}
	if saved == "" {
		logger.Info("no webhook configured")
		return
	}
	if err := dispatcher.Configure(saved); err != nil {
		logger.Warn("discarding invalid persisted webhook url", zap.String("url", saved))
		_ = redis.SaveWebhookURL(ctx, "")
	}
}

func loadSeed(cfg *config.Config, dealStore *store.DealStore) error {
	if cfg.Seed.File != "" {
		deals, err := seed.LoadFile(cfg.Seed.File)
		if err != nil {
			return err
		}
		dealStore.Seed(deals)
		return nil
	}
	dealStore.Seed(seed.Default(time.Now()))
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
