// Команда accounts — консольный клиент сервера учётных записей.
//
// Версия и дата сборки задаются через -ldflags:
//
//	go build -ldflags "-X main.buildVersion=1.0.0 -X main.buildDate=$(date +%F)" ./cmd/accounts
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IvanChernomyrdin/go-accounts/internal/agent/cli"
)

var (
	buildVersion = "dev"
	buildDate    = "unknown"
)

func main() {
	// Ctrl+C отменяет текущий запрос к серверу
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, buildVersion, buildDate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
