package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

// Ключи, по которым считается лимит (security.rate_limit.key).
const (
	RateKeyIP   = "ip"
	RateKeyUser = "user"
)

// visitorTTL — через сколько простоя limiter клиента выбрасывается из памяти.
const visitorTTL = 10 * time.Minute

// RateLimiter — token bucket на каждого клиента.
//
// Клиент определяется по IP или, при key=user, по username из Identity
// (для анонимных запросов используется IP).
type RateLimiter struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	rps        rate.Limit
	burst      int
	key        string
	trustProxy bool
	lastSweep  time.Time
	now        func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создаёт лимитер: rps запросов в секунду с допустимым всплеском burst.
func NewRateLimiter(rps float64, burst int, key string, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		visitors:   make(map[string]*visitor),
		rps:        rate.Limit(rps),
		burst:      burst,
		key:        key,
		trustProxy: trustProxy,
		now:        time.Now,
	}
}

// Allow сообщает, можно ли пропустить ещё один запрос клиента.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// чистим старых клиентов не чаще раза в visitorTTL, без отдельной горутины
	if now.Sub(rl.lastSweep) > visitorTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[client]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[client] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware возвращает HTTP middleware, отвечающий 429 при превышении лимита.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(rl.clientKey(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, serr.ErrTooManyRequests.Error(), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	if rl.key == RateKeyUser {
		if id, ok := IdentityFromContext(r.Context()); ok {
			return "user:" + id.Username
		}
	}
	return "ip:" + ClientIP(r, rl.trustProxy)
}

// ClientIP возвращает IP клиента.
// X-Forwarded-For учитывается только при trustProxy (server.trust_proxy).
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
