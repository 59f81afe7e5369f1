package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/models"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/service"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

func newAccountsService(t *testing.T) (*service.AccountsService, *mocks.MockUsersRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepo(ctrl)

	return service.NewAccountsService(users), users
}

func TestAccountsService_Details_OK(t *testing.T) {
	ctx := context.Background()
	svc, users := newAccountsService(t)

	u := models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	users.EXPECT().GetByUsername(ctx, "alice").Return(u, nil)

	got, err := svc.Details(ctx, "alice")

	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
}

func TestAccountsService_Details_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, users := newAccountsService(t)

	users.EXPECT().GetByUsername(ctx, "ghost").Return(models.User{}, serr.ErrNotFound)

	_, err := svc.Details(ctx, "ghost")

	require.ErrorIs(t, err, serr.ErrNotFound)
}

// без username в хранилище не ходим
func TestAccountsService_Details_NoUsername(t *testing.T) {
	svc, _ := newAccountsService(t)

	_, err := svc.Details(context.Background(), "  ")

	require.ErrorIs(t, err, serr.ErrUnauthorized)
}

// параллельные запросы одного username получают одинаковый результат
func TestAccountsService_Details_Concurrent(t *testing.T) {
	ctx := context.Background()
	svc, users := newAccountsService(t)

	const n = 32
	u := models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	users.EXPECT().GetByUsername(ctx, "alice").Return(u, nil).Times(n)

	results := make([]models.User, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := svc.Details(ctx, "alice")
			if err == nil {
				results[i] = got
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, u, got)
	}
}
