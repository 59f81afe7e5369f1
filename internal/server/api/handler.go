// Package api реализует HTTP-хендлеры сервера учётных записей.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, text/plain, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
//
// Маршруты и middleware собираются в пакете internal/server/net/http.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-accounts/internal/shared/logger"
)

// Заголовки и типы содержимого ответов.
const (
	ContentType     string = "Content-Type"
	JsonContentType string = "application/json"
	TextContentType string = "text/plain; charset=utf-8"
)

// ErrorResponse стандартный формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации.
//
// Методы Handler используются роутером для обработки HTTP-запросов.
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.JWTVerifier
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
//
// svc — набор сервисов приложения,
// log — логгер,
// verifier — JWT-проверка и middleware авторизации.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier) *Handler {
	if log == nil {
		log = logger.NewHTTPLogger()
	}
	return &Handler{
		Svc:      svc,
		Log:      log,
		Verifier: verifier,
	}
}

// errorStatuses — доменные ошибки, которые отдаются клиенту как есть.
// Порядок важен: первая совпавшая по errors.Is определяет статус.
var errorStatuses = []struct {
	err    error
	status int
}{
	{serr.ErrBadJSON, http.StatusBadRequest},
	{serr.ErrInvalidInput, http.StatusBadRequest},
	{serr.ErrInvalidCredentials, http.StatusUnauthorized},
	{serr.ErrUnauthorized, http.StatusUnauthorized},
	{serr.ErrNotFound, http.StatusNotFound},
	{serr.ErrAlreadyExists, http.StatusConflict},
	{serr.ErrTooManyRequests, http.StatusTooManyRequests},
}

// StatusFor возвращает HTTP-статус для ошибки сервиса; неизвестные ошибки — 500.
func StatusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// fail отвечает клиенту JSON-ошибкой.
// 5xx логируются с контекстом запроса, клиент получает только ErrInternal.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error(op+" failed",
			zap.Error(err),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
		WriteError(w, status, serr.ErrInternal)
		return
	}
	WriteError(w, status, err)
}

// decodeJSON читает тело запроса в v. Неизвестные поля и мусор после объекта — ErrBadJSON.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return serr.ErrBadJSON
	}
	if dec.More() {
		return serr.ErrBadJSON
	}
	return nil
}

// WriteError пишет ошибку в формате ErrorResponse.
func WriteError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// writeJSON пишет v как JSON с заданным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
