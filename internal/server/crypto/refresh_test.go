package crypto_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-accounts/internal/server/crypto"
)

// Токен — base64url от 32 случайных байт, хэш совпадает с HashRefreshToken
func TestNewRefreshToken_OK(t *testing.T) {
	token, err := crypt.NewRefreshToken()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token.Plain)
	require.NoError(t, err)
	require.Len(t, raw, 32)
	require.Equal(t, crypt.HashRefreshToken(token.Plain), token.Hash)
}

// Уникальность токена
func TestNewRefreshToken_Unique(t *testing.T) {
	t1, _ := crypt.NewRefreshToken()
	t2, _ := crypt.NewRefreshToken()
	require.NotEqual(t, t1.Plain, t2.Plain)
	require.NotEqual(t, t1.Hash, t2.Hash)
}

// Хэш детерминирован и имеет длину sha256
func TestHashRefreshToken(t *testing.T) {
	h1 := crypt.HashRefreshToken("token")
	h2 := crypt.HashRefreshToken("token")
	require.Equal(t, h1, h2)
	require.Len(t, h1, 32)
	require.NotEqual(t, h1, crypt.HashRefreshToken("other"))
}
