package api

import "context"

// HealthStatus — ответ /health и /ready.
type HealthStatus struct {
	Status string `json:"status"`
}

// Health проверяет, что сервер отвечает.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var resp HealthStatus
	err := c.GetJSON(ctx, PathHealth, &resp, "")
	return resp, err
}

// Ready проверяет готовность сервера (доступность БД).
// При 503 возвращается *APIError.
func (c *Client) Ready(ctx context.Context) (HealthStatus, error) {
	var resp HealthStatus
	err := c.GetJSON(ctx, PathReady, &resp, "")
	return resp, err
}
