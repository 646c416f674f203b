package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultDispatchTimeout = 10 * time.Second

// WebhookConfig is the runtime dispatcher configuration.
type WebhookConfig struct {
	Endpoint string `json:"endpoint"`
	Enabled  bool   `json:"enabled"`
}

// WebhookDispatcher forwards events to an externally configured automation
// endpoint. Delivery is best-effort: a single attempt, no retries, and any
// transport failure is logged and swallowed so domain mutations never block
// on outbound notification.
type WebhookDispatcher struct {
	mu      sync.RWMutex
	cfg     WebhookConfig
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewWebhookDispatcher builds a dispatcher in the disabled state.
func NewWebhookDispatcher(logger *zap.Logger, timeout time.Duration) *WebhookDispatcher {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &WebhookDispatcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

// Configure validates and stores the endpoint URL, enabling dispatch.
// Malformed URLs are rejected before they are stored.
func (d *WebhookDispatcher) Configure(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("invalid webhook url %q", rawURL)
	}

	d.mu.Lock()
	d.cfg = WebhookConfig{Endpoint: rawURL, Enabled: true}
	d.mu.Unlock()

	d.logger.Info("webhook configured", zap.String("url", rawURL))
	return nil
}

// Disable turns dispatch off. The stored endpoint is cleared.
func (d *WebhookDispatcher) Disable() {
	d.mu.Lock()
	d.cfg = WebhookConfig{}
	d.mu.Unlock()

	d.logger.Info("webhook disabled")
}

// Config returns a copy of the current configuration.
func (d *WebhookDispatcher) Config() WebhookConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// DispatchAsync delivers the event on a detached goroutine. The caller's
// mutation is complete before delivery resolves.
func (d *WebhookDispatcher) DispatchAsync(event Event) {
	go d.Dispatch(event)
}

// Dispatch performs a single fire-and-forget delivery attempt. When the
// dispatcher is disabled or unconfigured the event is only logged; that is
// the normal state, not an error.
func (d *WebhookDispatcher) Dispatch(event Event) {
	cfg := d.Config()
	if !cfg.Enabled || cfg.Endpoint == "" {
		d.logger.Debug("event not dispatched",
			zap.String("event_type", string(event.Type)),
			zap.String("deal_id", event.DealID))
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		d.logger.Warn("webhook event marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		d.logger.Warn("webhook request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("webhook dispatch failed",
			zap.String("event_type", string(event.Type)),
			zap.String("deal_id", event.DealID),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		d.logger.Warn("webhook endpoint returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("event_type", string(event.Type)),
			zap.String("deal_id", event.DealID))
		return
	}

	d.logger.Debug("event dispatched",
		zap.String("event_type", string(event.Type)),
		zap.String("deal_id", event.DealID))
}
