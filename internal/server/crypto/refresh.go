package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// refreshTokenBytes — энтропия refresh-токена.
const refreshTokenBytes = 32

// RefreshToken — выданный refresh-токен: Plain уходит клиенту, Hash пишется в sessions.
type RefreshToken struct {
	Plain string
	Hash  []byte
}

// NewRefreshToken генерирует непрозрачный refresh-токен (base64url без паддинга)
// вместе с его хэшем.
func NewRefreshToken() (RefreshToken, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return RefreshToken{}, err
	}
	plain := base64.RawURLEncoding.EncodeToString(b)
	return RefreshToken{Plain: plain, Hash: HashRefreshToken(plain)}, nil
}

// HashRefreshToken возвращает sha256 токена, по нему ищется сессия.
func HashRefreshToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
