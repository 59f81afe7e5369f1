package repository

import (
	"context"
	"database/sql"
)

// HealthRepository проверяет доступность БД для readiness-проверки.
type HealthRepository struct {
	db *sql.DB
}

func NewHealthRepository(db *sql.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

// Ping проверяет соединение с БД.
func (r *HealthRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
