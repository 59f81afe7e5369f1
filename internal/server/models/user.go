// Package models содержит серверные модели данных.
package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

// Ограничения на длину полей пользователя (совпадают со схемой БД).
const (
	MaxUsernameLen     = 150
	MaxNameLen         = 150
	MaxEmailLen        = 254
	MaxMobileNumberLen = 20
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User — плоская запись пользователя.
//
// Базовые поля учётной записи (username, хэш пароля, флаги, отметки времени)
// и поля профиля (email, мобильный номер, дата рождения) лежат в одной структуре.
//
// Инварианты хранилища:
//   - ID генерируется случайно при создании, не меняется, уникален;
//   - Email уникален среди всех пользователей, пустой email хранится как NULL;
//   - Username уникален.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	MobileNumber string
	BirthDate    *time.Time // только дата, без времени
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	LastLogin    *time.Time
	DateJoined   time.Time
}

// String возвращает email — человекочитаемый идентификатор пользователя.
func (u User) String() string {
	return u.Email
}

// NormalizeEmail обрезает пробелы и приводит к нижнему регистру доменную часть.
// Локальная часть (до последнего @) остаётся как есть: она может быть регистрозависимой.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// ValidateUser проверяет длины и формат полей перед записью в хранилище.
//
// Email может быть пустым, но если задан — должен быть похож на email.
// Возвращает ErrInvalidInput при любом нарушении.
func ValidateUser(u User) error {
	if u.Username == "" || utf8.RuneCountInString(u.Username) > MaxUsernameLen || !usernameRe.MatchString(u.Username) {
		return serr.ErrInvalidInput
	}
	if u.Email != "" && (utf8.RuneCountInString(u.Email) > MaxEmailLen || !emailRe.MatchString(u.Email)) {
		return serr.ErrInvalidInput
	}
	if utf8.RuneCountInString(u.MobileNumber) > MaxMobileNumberLen {
		return serr.ErrInvalidInput
	}
	if utf8.RuneCountInString(u.FirstName) > MaxNameLen || utf8.RuneCountInString(u.LastName) > MaxNameLen {
		return serr.ErrInvalidInput
	}
	return nil
}
