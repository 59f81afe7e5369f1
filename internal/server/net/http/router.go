// Package http реализует маршрутизацию HTTP-слоя сервера учётных записей.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - именованную таблицу маршрутов и обратный поиск пути по имени;
//   - логирование выполнения HTTP-запросов;
//   - ограничение частоты запросов;
//   - выполняет проверку JWT access-токенов;
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/api"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/middleware"
)

// Options — необязательные настройки роутера.
type Options struct {
	// RateLimiter включает ограничение частоты запросов (nil — выключено).
	RateLimiter *middleware.RateLimiter
	// MaxBodyBytes ограничивает размер тела запроса (0 — без ограничения).
	MaxBodyBytes int64
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware логирования и восстановления после паники для всех запросов;
//   - health-эндпоинты /health и /ready;
//   - публичные эндпоинты аутентификации под префиксом /auth;
//   - группу защищённых JWT эндпоинтов (/accounts/details/).
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(chimw.RequestID)
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(chimw.Recoverer)
	if opts.MaxBodyBytes > 0 {
		r.Use(chimw.RequestSize(opts.MaxBodyBytes))
	}

	limit := func(next http.Handler) http.Handler { return next }
	if opts.RateLimiter != nil {
		limit = opts.RateLimiter.Middleware()
	}

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// health не лимитируем, его дёргают балансировщики
	handle(r, RouteHealthLive, h.Live)
	handle(r, RouteHealthReady, h.Ready)

	// Публичные пути
	r.Group(func(r chi.Router) {
		r.Use(limit)
		handle(r, RouteRegister, h.Register)
		handle(r, RouteLogin, h.Login)
		handle(r, RouteRefresh, h.Refresh)
	})
	// защищены пути
	r.Group(func(r chi.Router) {
		// проверка access токена, лимит после неё, чтобы считать по username
		r.Use(h.Verifier.AuthMiddleware())
		r.Use(limit)
		handle(r, RouteUserAccount, h.UserAccount)
	})

	return r
}

func handle(r chi.Router, name string, fn http.HandlerFunc) {
	route := mustLookup(name)
	r.Method(route.Method, route.Path, fn)
}
