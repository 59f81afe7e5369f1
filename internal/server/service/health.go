package service

import (
	"context"
	"fmt"

	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

// HealthService проверяет готовность зависимостей сервера.
type HealthService struct {
	repo HealthRepo
}

// NewHealthService создаёт HealthService.
func NewHealthService(repo HealthRepo) *HealthService {
	return &HealthService{repo: repo}
}

// Ready возвращает nil, если база данных доступна.
func (s *HealthService) Ready(ctx context.Context) error {
	if s.repo == nil {
		return fmt.Errorf("%w: health repository is not configured", serr.ErrInternal)
	}
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	return nil
}
