package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-accounts/internal/agent/api"
)

// NewDetailsCmd создаёт CLI-команду, выводящую приветствие текущего пользователя.
//
// Если access токен истёк (401) и есть refresh токен, команда один раз
// обновляет токены и повторяет запрос.
//
// Пример использования:
//
//	accounts details
func NewDetailsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: "Показать данные текущего пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.AccessToken == "" {
				return errors.New("no access_token in config, run: accounts login")
			}

			text, err := NewAPIClient(app).Details(cmd.Context(), app.Creds.AccessToken)
			if api.StatusCode(err) == http.StatusUnauthorized && app.Creds.RefreshToken != "" {
				if rerr := refreshTokens(cmd.Context(), app); rerr != nil {
					return fmt.Errorf("session expired, run: accounts login (%w)", rerr)
				}
				text, err = NewAPIClient(app).Details(cmd.Context(), app.Creds.AccessToken)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
