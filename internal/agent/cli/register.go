package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-accounts/internal/agent/api"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Обязателен флаг --username. Пароль берётся из --password, из stdin
// (--password-stdin) или запрашивается в терминале.
//
// Пример использования:
//
//	accounts register --username alice --email alice@example.com --password StrongPass123
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		req           api.RegisterRequest
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя на сервере.

Пример:
  accounts register --username alice --email alice@example.com --password StrongPass123 \
      --mobile +79990001122 --birth-date 1990-05-17
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, req.Password, passwordStdin)
			if err != nil {
				return err
			}
			req.Password = pw

			c := NewAPIClient(app)
			// выполняет добавление нового пользователя в бд
			resp, err := c.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registration successful, user_id=%s\n", resp.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "username for registration")
	cmd.Flags().StringVar(&req.Email, "email", "", "email (optional, must be unique)")
	cmd.Flags().StringVar(&req.Password, "password", "", "password for registration")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.MobileNumber, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&req.BirthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	cmd.MarkFlagRequired("username")

	return cmd
}
