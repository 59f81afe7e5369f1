package api_test

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/api"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/config"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-accounts/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-accounts/internal/shared/logger"
)

type testDeps struct {
	users    *svcmocks.MockUsersRepo
	sessions *svcmocks.MockSessionsRepo
	health   *svcmocks.MockHealthRepo
	cfg      *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Issuer:     "issuer",
			Audience:   "audience",
			AccessTTL:  1 * time.Minute,
			RefreshTTL: 24 * time.Hour,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456", // >= 32
			},
			Sessions: config.SessionsConfig{
				RotateRefresh:      true,
				ReuseDetection:     true,
				MaxSessionsPerUser: 5,
			},
		},
		Password: config.PasswordConfig{
			Hasher: "argon2id",
			Argon2: config.Argon2Config{
				Time:      1,
				MemoryKiB: 64 * 1024,
				Threads:   1,
				KeyLen:    32,
				SaltLen:   16,
			},
		},
	}
}

// NewTestHandler создаёт Handler с моками и конфигом через dependency injection
func NewTestHandler(t *testing.T) (*api.Handler, testDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	deps := testDeps{
		users:    svcmocks.NewMockUsersRepo(ctrl),
		sessions: svcmocks.NewMockSessionsRepo(ctrl),
		health:   svcmocks.NewMockHealthRepo(ctrl),
		cfg:      testConfig(),
	}

	svc := service.NewServices(service.Repositories{
		Users:    deps.users,
		Sessions: deps.sessions,
		Health:   deps.health,
	}, deps.cfg)

	verifier := middleware.NewJWTVerifier(deps.cfg.Auth.JWT.SigningKey, deps.cfg.Auth.Issuer, deps.cfg.Auth.Audience)
	log := logger.New(logger.Options{Dir: t.TempDir()})

	return api.NewHandler(svc, log, verifier), deps
}
