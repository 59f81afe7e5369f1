//go:build ignore

// launcher поднимает сервер в фоне и собирает CLI-клиент для локальной разработки.
//
//	go run launcher.go
package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

func main() {
	fmt.Println("Запуск сервера учётных записей...")

	clientName := "accounts"
	if runtime.GOOS == "windows" {
		clientName = "accounts.exe"
	}
	// запускаем сервер на фоне
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	time.Sleep(3 * time.Second)
	// собираем клиента
	if _, err := os.Stat(clientName); os.IsNotExist(err) {
		fmt.Println("Сборка клиента...")
		build := exec.Command("go", "build", "-o", clientName, "./cmd/accounts")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			fmt.Printf("Ошибка сборки клиента: %v\n", err)
			return
		}
	}

	fmt.Println("Сервер запущен")
	// пишем как запускать агента
	prefix := "./"
	if runtime.GOOS == "windows" {
		prefix = ".\\"
	}
	fmt.Printf("Данный терминал не закрывай. Открой новый и запускай: %s%s --insecure details\n", prefix, clientName)

	server.Wait()
}
