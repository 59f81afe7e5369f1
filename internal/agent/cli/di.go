package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-accounts/internal/agent/api"
)

// для тестов
var (
	NewAPIClient = func(app *App) *api.Client {
		return api.NewClient(app.ServerURL, app.Insecure)
	}
	ReadPassword = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return readPassword(cmd, fromStdin)
	}
)
