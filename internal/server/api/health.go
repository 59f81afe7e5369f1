package api

import (
	"net/http"

	"go.uber.org/zap"
)

// HealthResponse — ответ health-эндпоинтов.
type HealthResponse struct {
	Status string `json:"status"`
}

// Live сообщает, что процесс жив.
//
// @Summary  Liveness check
// @Tags     health
// @Produce  json
// @Success  200 {object} HealthResponse
// @Router   /health [get]
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready проверяет доступность базы данных.
//
// @Summary  Readiness check
// @Tags     health
// @Produce  json
// @Success  200 {object} HealthResponse
// @Failure  503 {object} HealthResponse
// @Router   /ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Health.Ready(r.Context()); err != nil {
		h.Log.Warn("readiness check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
