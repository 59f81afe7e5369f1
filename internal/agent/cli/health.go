package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHealthCmd создаёт CLI-команду проверки состояния сервера.
//
// Выводит статус /health и /ready. Если сервер не готов, команда завершается ошибкой.
//
// Пример использования:
//
//	accounts health
func NewHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Проверить состояние сервера",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewAPIClient(app)

			live, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("server is not responding: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "live: %s\n", live.Status)

			ready, err := client.Ready(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "ready: unavailable")
				return fmt.Errorf("server is not ready: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ready: %s\n", ready.Status)
			return nil
		},
	}
}
