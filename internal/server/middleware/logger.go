// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-accounts/internal/shared/logger"
)

// LoggerMiddleware пишет строку лога на каждый запрос.
//
// Кроме метода, uri, статуса, размера и длительности в лог попадают
// request_id (если перед этой мидлварью стоит chi RequestID) и адрес клиента.
// Уровень записи зависит от статуса: 5xx — error, 4xx — warn.
func LoggerMiddleware(loggerHTTP *logger.HTTPLogger) func(http.Handler) http.Handler {
	if loggerHTTP == nil {
		loggerHTTP = logger.NewHTTPLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// хендлер ничего не записал — net/http ответит 200
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			loggerHTTP.LogRequest(r.Method, r.RequestURI, status, ww.BytesWritten(),
				float64(time.Since(start).Microseconds())/1000,
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
