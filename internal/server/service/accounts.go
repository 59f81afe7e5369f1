package service

import (
	"context"
	"strings"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

// AccountsService отдаёт данные учётной записи текущего пользователя.
//
// Сервис не хранит состояния и безопасен для конкурентного использования.
type AccountsService struct {
	users UsersRepo
}

// NewAccountsService создаёт AccountsService.
func NewAccountsService(users UsersRepo) *AccountsService {
	return &AccountsService{users: users}
}

// Details возвращает запись пользователя по username аутентифицированного запроса.
//
// Ошибки:
//   - ErrUnauthorized — username пустой (запрос не аутентифицирован);
//   - ErrNotFound — записи с таким username нет;
//   - ErrInternal — ошибка хранилища.
func (s *AccountsService) Details(ctx context.Context, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, serr.ErrUnauthorized
	}
	return s.users.GetByUsername(ctx, username)
}
