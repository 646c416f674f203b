package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/deal-service/internal/config"
)

const webhookURLKey = "deal-service:webhook_url"

// Redis wraps the go-redis client. It carries the one external storage
// concern of the service: the persisted webhook endpoint configuration.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// SaveWebhookURL persists the configured endpoint. An empty URL clears it.
func (r *Redis) SaveWebhookURL(ctx context.Context, url string) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	if url == "" {
		return r.Client.Del(ctx, webhookURLKey).Err()
	}
	return r.Client.Set(ctx, webhookURLKey, url, 0).Err()
}

// LoadWebhookURL restores the persisted endpoint, empty when none is stored.
func (r *Redis) LoadWebhookURL(ctx context.Context) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("redis client not configured")
	}
	url, err := r.Client.Get(ctx, webhookURLKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return url, nil
}
