package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/config"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

// minPasswordLen — минимальная длина пароля при регистрации.
const minPasswordLen = 8

// AuthService реализует бизнес-логику аутентификации и управления сессиями.
//
// Ответственность:
//   - регистрация пользователей
//   - аутентификация (логин по username)
//   - выпуск access / refresh токенов
//   - обновление access токенов по refresh
//   - rotation refresh токенов
//   - reuse detection (защита от повторного использования refresh)
type AuthService struct {
	users    UsersRepo
	sessions SessionsRepo

	pass crypto.PasswordParams
	jwt  crypto.JWTConfig

	refreshTTL     time.Duration
	rotateRefresh  bool
	reuseDetection bool
	maxSessions    int

	now func() time.Time
}

// TokenPair представляет пару access / refresh токенов.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput — данные для регистрации пользователя.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	FirstName    string
	LastName     string
	MobileNumber string
	BirthDate    *time.Time
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, sessions SessionsRepo, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,

		pass: crypto.PasswordParams{
			Hasher: cfg.Password.Hasher,
			Argon2: crypto.Argon2Params{
				Time:      cfg.Password.Argon2.Time,
				MemoryKiB: cfg.Password.Argon2.MemoryKiB,
				Threads:   cfg.Password.Argon2.Threads,
				KeyLen:    cfg.Password.Argon2.KeyLen,
				SaltLen:   cfg.Password.Argon2.SaltLen,
			},
			BcryptCost: cfg.Password.Bcrypt.Cost,
		},
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},

		refreshTTL:     cfg.Auth.RefreshTTL,
		rotateRefresh:  cfg.Auth.Sessions.RotateRefresh,
		reuseDetection: cfg.Auth.Sessions.ReuseDetection,
		maxSessions:    cfg.Auth.Sessions.MaxSessionsPerUser,

		now: time.Now,
	}
}

// Register регистрирует нового пользователя.
//
// Валидация:
//   - username обязателен, до 150 символов, только буквы, цифры и @.+-_
//   - email необязателен, но если задан, должен быть валидным
//   - пароль обязателен и длиной >= 8 символов
//
// Возвращает:
//   - id пользователя
//   - ErrInvalidInput при некорректных данных или ErrAlreadyExists если username/email заняты
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	password := strings.TrimSpace(in.Password)
	if utf8.RuneCountInString(password) < minPasswordLen {
		return uuid.Nil, serr.ErrInvalidInput
	}

	u := models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        models.NormalizeEmail(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		MobileNumber: strings.TrimSpace(in.MobileNumber),
		BirthDate:    in.BirthDate,
		IsActive:     true,
		DateJoined:   s.now().UTC(),
	}
	if err := models.ValidateUser(u); err != nil {
		return uuid.Nil, err
	}

	hash, err := crypto.Hash(password, s.pass)
	if err != nil {
		return uuid.Nil, serr.ErrInternal
	}
	u.PasswordHash = hash

	return s.users.Create(ctx, u)
}

// Login аутентифицирует пользователя и выдаёт пару токенов.
//
// Поведение:
//   - не раскрывает факт существования username
//   - неактивный пользователь получает тот же ответ, что и при неверном пароле
//   - при успехе обновляет last_login и создаёт refresh-сессию
//   - лишние сессии сверх max_sessions_per_user отзываются
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}
	// получаем юзера по username
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	// проверяем пароль
	ok, err := crypto.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}
	if !ok || !u.IsActive {
		return TokenPair{}, serr.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now.UTC()); err != nil {
		return TokenPair{}, err
	}

	pair, _, err := s.issue(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}

	if s.maxSessions > 0 {
		if err := s.sessions.RevokeExcess(ctx, u.ID, s.maxSessions); err != nil {
			return TokenPair{}, err
		}
	}

	return pair, nil
}

// issue выпускает access токен и создаёт новую refresh-сессию.
// Возвращает пару токенов и id созданной сессии.
func (s *AuthService) issue(ctx context.Context, u models.User) (TokenPair, uuid.UUID, error) {
	access, err := crypto.NewAccessToken(u.ID.String(), u.Username, s.jwt)
	if err != nil {
		return TokenPair{}, uuid.Nil, serr.ErrInternal
	}
	refresh, err := crypto.NewRefreshToken()
	if err != nil {
		return TokenPair{}, uuid.Nil, serr.ErrInternal
	}
	sessID, err := s.sessions.Create(ctx, u.ID, refresh.Hash, s.now().Add(s.refreshTTL))
	if err != nil {
		return TokenPair{}, uuid.Nil, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh.Plain}, sessID, nil
}

// Refresh обновляет access токен по refresh токену.
//
// Поддерживает:
//   - rotation refresh токенов
//   - reuse detection (отзыв всех сессий при атаке)
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrUnauthorized
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}

	hash := crypto.HashRefreshToken(refreshToken)

	sess, err := s.sessions.GetByRefreshHash(ctx, hash)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrUnauthorized
		}
		return TokenPair{}, err
	}

	if sess.Expired(s.now()) {
		return TokenPair{}, serr.ErrUnauthorized
	}

	// если токен уже отозван — значит кто-то пытается переиспользовать
	if sess.Revoked() {
		return TokenPair{}, s.rejectReuse(ctx, sess.UserID)
	}

	// username в access токене берём из актуальной записи
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrUnauthorized
		}
		return TokenPair{}, err
	}
	if !u.IsActive {
		return TokenPair{}, serr.ErrUnauthorized
	}

	// если rotate_refresh выключен — возвращаем только новый access, refresh тот же
	if !s.rotateRefresh {
		access, err := crypto.NewAccessToken(u.ID.String(), u.Username, s.jwt)
		if err != nil {
			return TokenPair{}, serr.ErrInternal
		}
		return TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
	}

	// rotation: выдаём новый refresh, старый отзываем
	pair, newID, err := s.issue(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}

	err = s.sessions.RevokeAndReplace(ctx, sess.ID, newID)
	switch {
	case err == nil:
		return pair, nil
	case errors.Is(err, serr.ErrConflict):
		// параллельный refresh тем же токеном успел первым:
		// только что выданная сессия не должна пережить гонку
		if s.reuseDetection {
			return TokenPair{}, s.rejectReuse(ctx, sess.UserID)
		}
		if err := s.sessions.Revoke(ctx, newID); err != nil {
			return TokenPair{}, err
		}
		return TokenPair{}, serr.ErrUnauthorized
	default:
		return TokenPair{}, err
	}
}

// rejectReuse отзывает все сессии пользователя (если включён reuse detection)
// и возвращает ErrUnauthorized.
func (s *AuthService) rejectReuse(ctx context.Context, userID uuid.UUID) error {
	if s.reuseDetection {
		if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
			return err
		}
	}
	return serr.ErrUnauthorized
}
