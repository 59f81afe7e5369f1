// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

// pgUniqueViolation — SQLSTATE нарушения уникальности.
const pgUniqueViolation = "23505"

const userColumns = `id, username, password_hash, email, first_name, last_name,
		mobile_number, birth_date, is_active, is_staff, is_superuser, last_login, date_joined`

// UsersRepository — хранилище записей пользователей.
//
// Уникальность id, username и email обеспечивает сама БД,
// репозиторий только переводит нарушения в ErrAlreadyExists.
type UsersRepository struct {
	db *sql.DB
}

// NewUsersRepository создает новый UsersRepository.
func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет нового пользователя и возвращает его id.
//
// Если u.ID не задан, генерируется случайный uuid v4.
// Пустой email записывается как NULL.
//
// Ошибки:
//   - ErrAlreadyExists (обёрнутая с именем поля) при нарушении уникальности
//   - ErrInternal при других ошибках БД
func (r *UsersRepository) Create(ctx context.Context, u models.User) (uuid.UUID, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now().UTC()
	}

	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (id, username, password_hash, email, first_name, last_name,
		                    mobile_number, birth_date, is_active, is_staff, is_superuser, date_joined)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING id`,
		u.ID, u.Username, u.PasswordHash, nullString(u.Email), u.FirstName, u.LastName,
		u.MobileNumber, u.BirthDate, u.IsActive, u.IsStaff, u.IsSuperuser, u.DateJoined,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, fmt.Errorf("%w: %s", serr.ErrAlreadyExists, conflictField(pgErr.ConstraintName))
		}
		return uuid.Nil, serr.ErrInternal
	}

	return id, nil
}

// GetByUsername возвращает пользователя по username.
//
// Ошибки:
//   - ErrNotFound, если строки нет
//   - ErrInternal при ошибке БД
func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=$1`,
		username,
	)
	return scanUser(row)
}

// GetByID возвращает пользователя по id (используется при refresh).
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`,
		id,
	)
	return scanUser(row)
}

// UpdateLastLogin проставляет время последнего успешного входа.
func (r *UsersRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login=$2 WHERE id=$1`,
		id, at,
	)
	if err != nil {
		return serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		u         models.User
		email     sql.NullString
		birthDate sql.NullTime
		lastLogin sql.NullTime
	)

	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &email, &u.FirstName, &u.LastName,
		&u.MobileNumber, &birthDate, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &lastLogin, &u.DateJoined,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}

	u.Email = email.String
	if birthDate.Valid {
		t := birthDate.Time
		u.BirthDate = &t
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

// conflictField определяет по имени ограничения, какое поле оказалось занято.
func conflictField(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "email"
	case strings.Contains(constraint, "username"):
		return "username"
	case strings.Contains(constraint, "pkey"), strings.Contains(constraint, "id_key"):
		return "id"
	default:
		return "unknown"
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
