package models

import (
	"time"

	"github.com/google/uuid"
)

// Session — refresh-сессия пользователя.
//
// Сам refresh-токен не хранится, только его SHA-256.
// При ротации старая сессия получает RevokedAt и ссылку на новую в ReplacedBy.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *uuid.UUID
}

// Revoked сообщает, отозвана ли сессия.
func (s Session) Revoked() bool {
	return s.RevokedAt != nil
}

// Expired сообщает, истёк ли срок действия сессии на момент now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
