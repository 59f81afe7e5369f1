// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/crypto"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// identityKey — ключ контекста, под которым хранится аутентифицированный пользователь.
const identityKey ctxKey = "identity"

// Identity — аутентифицированный пользователь запроса.
type Identity struct {
	UserID   string
	Username string
}

// JWTVerifier проверяет access-токены запросов.
type JWTVerifier struct {
	cfg crypto.JWTConfig
}

// NewJWTVerifier создаёт JWTVerifier. Пустые issuer и audience не проверяются.
func NewJWTVerifier(signingKey, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{cfg: crypto.JWTConfig{SigningKey: signingKey, Issuer: issuer, Audience: audience}}
}

// Verify разбирает токен и возвращает пользователя.
func (v *JWTVerifier) Verify(token string) (Identity, error) {
	claims, err := crypto.ParseAccessToken(token, v.cfg)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.Subject, Username: claims.Username}, nil
}

// WithIdentity кладёт пользователя в контекст.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext извлекает аутентифицированного пользователя из контекста.
//
// Возвращает false, если пользователь не аутентифицирован.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.Username == "" {
		return Identity{}, false
	}
	return id, true
}

// AuthMiddleware пропускает дальше только запросы с валидным
// Authorization: Bearer <token> и кладёт Identity в контекст.
//
// Иначе отвечает 401 с заголовком WWW-Authenticate, next не вызывается.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearer(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w, "", "missing bearer token")
				return
			}

			id, err := v.Verify(token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, crypto.ErrAccessTokenExpired) {
					msg = "token expired"
				}
				unauthorized(w, "invalid_token", msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// unauthorized отвечает 401 в формате RFC 6750.
func unauthorized(w http.ResponseWriter, code, msg string) {
	challenge := `Bearer realm="accounts"`
	if code != "" {
		challenge += fmt.Sprintf(`, error=%q, error_description=%q`, code, msg)
	}
	w.Header().Set("WWW-Authenticate", challenge)
	http.Error(w, msg, http.StatusUnauthorized)
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
