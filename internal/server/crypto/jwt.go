// Package crypto содержит криптографические примитивы,
// используемые сервером учётных записей.
//
// В частности, пакет отвечает за:
//   - генерацию, подпись и проверку JWT access-токенов;
//   - настройку параметров токенов (issuer, audience, TTL);
//   - соблюдение требований безопасности (HS256, срок жизни).
package crypto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig описывает параметры генерации JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// AccessClaims — claims access-токена.
//
// Кроме стандартных полей несёт username, по которому
// хендлеры ищут запись пользователя.
type AccessClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Ошибки проверки access-токена.
var (
	ErrAccessTokenExpired = errors.New("access token expired")
	ErrAccessTokenInvalid = errors.New("invalid access token")
)

// clockSkew — допуск на рассинхрон часов при проверке exp.
const clockSkew = 5 * time.Second

// NewAccessToken подписывает (HS256) access-токен пользователя.
//
// sub — id пользователя, username — отдельный claim, jti — случайный uuid.
func NewAccessToken(userID, username string, cfg JWTConfig) (string, error) {
	now := time.Now()

	claims := AccessClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Audience:  []string{cfg.Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// ParseAccessToken проверяет подпись, exp, а также iss и aud (если заданы в cfg)
// и возвращает claims. Токен без sub или username считается невалидным.
//
// Ошибки: ErrAccessTokenExpired или ErrAccessTokenInvalid.
func ParseAccessToken(token string, cfg JWTConfig) (*AccessClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &AccessClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrAccessTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrAccessTokenInvalid, err)
	}

	claims.Subject = strings.TrimSpace(claims.Subject)
	claims.Username = strings.TrimSpace(claims.Username)
	if claims.Subject == "" || claims.Username == "" {
		return nil, fmt.Errorf("%w: missing subject or username", ErrAccessTokenInvalid)
	}
	return claims, nil
}
