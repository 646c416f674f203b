package dto

// ConfigureWebhookRequest payload.
type ConfigureWebhookRequest struct {
	URL string `json:"url"`
}

// WebhookConfigResponse mirrors the dispatcher configuration.
type WebhookConfigResponse struct {
	Endpoint string `json:"endpoint"`
	Enabled  bool   `json:"enabled"`
}
