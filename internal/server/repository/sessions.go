package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

const sessionColumns = `id, user_id, expires_at, revoked_at, replaced_by`

// SessionsRepository хранит refresh-сессии пользователей.
//
// Все переходы состояния сессии (отзыв, замена при ротации) делаются одним
// условным UPDATE ... WHERE revoked_at IS NULL, поэтому из двух конкурентных
// ротаций одного токена успешной будет только одна.
type SessionsRepository struct {
	db *sql.DB
}

// NewSessionsRepository создает новый SessionsRepository.
func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

// Create сохраняет новую сессию по хэшу refresh-токена и возвращает её id.
//
// Ошибки:
//   - ErrConflict, если такой хэш уже есть
//   - ErrInternal при других ошибках БД
func (r *SessionsRepository) Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sessions (user_id, refresh_hash, expires_at)
		 VALUES ($1,$2,$3)
		 RETURNING id`,
		userID, refreshHash, expiresAt,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, serr.ErrConflict
		}
		return uuid.Nil, serr.ErrInternal
	}
	return id, nil
}

// GetByRefreshHash находит сессию по хэшу refresh-токена.
// Отозванные сессии тоже возвращаются: по ним сервис распознаёт повторное использование.
//
// Ошибки:
//   - ErrUnauthorized, если сессии нет
//   - ErrInternal при ошибке БД
func (r *SessionsRepository) GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_hash=$1`,
		refreshHash,
	)
	return scanSession(row)
}

// RevokeAndReplace отзывает активную сессию oldID и связывает её с newID.
//
// Если oldID уже отозвана (например, параллельный refresh тем же токеном
// успел первым), ни одна строка не меняется и возвращается ErrConflict.
func (r *SessionsRepository) RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error {
	n, err := r.exec(ctx,
		`UPDATE sessions
		    SET revoked_at = now(), replaced_by = $2
		  WHERE id = $1 AND revoked_at IS NULL`,
		oldID, newID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return serr.ErrConflict
	}
	return nil
}

// Revoke отзывает одну сессию. Повторный отзыв не ошибка.
func (r *SessionsRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	_, err := r.exec(ctx,
		`UPDATE sessions SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`,
		id,
	)
	return err
}

// RevokeAllForUser отзывает все активные сессии пользователя.
func (r *SessionsRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.exec(ctx,
		`UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`,
		userID,
	)
	return err
}

// RevokeExcess оставляет пользователю не более keep самых свежих активных сессий,
// остальные отзывает (auth.sessions.max_sessions_per_user).
func (r *SessionsRepository) RevokeExcess(ctx context.Context, userID uuid.UUID, keep int) error {
	_, err := r.exec(ctx,
		`UPDATE sessions
		    SET revoked_at = now()
		  WHERE id IN (
		        SELECT id FROM sessions
		         WHERE user_id = $1 AND revoked_at IS NULL
		         ORDER BY created_at DESC
		        OFFSET $2)`,
		userID, keep,
	)
	return err
}

// exec выполняет UPDATE и возвращает число затронутых строк.
func (r *SessionsRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, serr.ErrInternal
	}
	return n, nil
}

func scanSession(row *sql.Row) (models.Session, error) {
	var (
		s         models.Session
		revokedAt sql.NullTime
		replaced  uuid.NullUUID
	)

	err := row.Scan(&s.ID, &s.UserID, &s.ExpiresAt, &revokedAt, &replaced)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, serr.ErrUnauthorized
		}
		return models.Session{}, serr.ErrInternal
	}

	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	if replaced.Valid {
		id := replaced.UUID
		s.ReplacedBy = &id
	}
	return s, nil
}
