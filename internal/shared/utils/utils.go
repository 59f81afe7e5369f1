// Утилитарные функции общего назначения (разбор дат API и CLI)
package utils

import (
	"strings"
	"time"
)

// DateLayout — формат даты рождения в API и CLI.
const DateLayout = "2006-01-02"

// ParseDate разбирает дату вида YYYY-MM-DD.
// Пустая строка означает "даты нет" и возвращает nil без ошибки.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
