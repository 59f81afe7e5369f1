package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-accounts/internal/agent/config"
)

// errNoRefresh — refresh токена нет в локальном конфиге.
var errNoRefresh = errors.New("no refresh_token in config, run: accounts login")

// NewRefreshCmd создаёт CLI-команду для обновления пары токенов.
//
// Команда использует сохранённый refresh токен и сохраняет обновлённые
// токены в локальный конфигурационный файл.
//
// Пример использования:
//
//	accounts refresh
func NewRefreshCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Обновить access токен по refresh токену",
		Long: `Обновляет access token по refresh token.

Пример:
  accounts refresh
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := refreshTokens(cmd.Context(), app); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "refresh ok (tokens updated)")
			return nil
		},
	}

	return cmd
}

// refreshTokens обновляет токены по refresh и сохраняет их локально.
func refreshTokens(ctx context.Context, app *App) error {
	if app.Creds.RefreshToken == "" {
		return errNoRefresh
	}

	c := NewAPIClient(app)
	// генерирует новый jwt по refresh
	resp, err := c.Refresh(ctx, app.Creds.RefreshToken)
	if err != nil {
		return err
	}
	// сохраняет в структуру
	app.Creds.AccessToken = resp.AccessToken
	app.Creds.RefreshToken = resp.RefreshToken
	// сохраняет локально
	return config.Save(app.CredsPath, app.Creds)
}
