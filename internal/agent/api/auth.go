// В этом файле описаны методы клиента для работы с эндпоинтами
// аутентификации: регистрация, вход и обновление токенов.
package api

import "context"

// Пути эндпоинтов сервера.
const (
	PathRegister = "/auth/register"
	PathLogin    = "/auth/login"
	PathRefresh  = "/auth/refresh"
	PathDetails  = "/accounts/details/"
	PathHealth   = "/health"
	PathReady    = "/ready"
)

// RegisterRequest описывает тело запроса регистрации пользователя.
//
// Обязательны Username и Password, остальные поля можно не передавать.
// BirthDate передаётся в формате YYYY-MM-DD.
type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
	BirthDate    string `json:"birth_date,omitempty"`
}

// RegisterResponse описывает ответ сервера при успешной регистрации.
//
// UserID содержит идентификатор созданного пользователя.
type RegisterResponse struct {
	UserID string `json:"user_id"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse описывает ответ сервера с парой токенов (login и refresh).
//
// AccessToken используется для авторизации запросов к защищённым эндпоинтам.
// RefreshToken используется для обновления пары токенов через /auth/refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest описывает тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register выполняет регистрацию пользователя на сервере.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var resp RegisterResponse
	err := c.PostJSON(ctx, PathRegister, req, &resp, "")
	return resp, err
}

// Login выполняет вход пользователя и получает пару токенов.
func (c *Client) Login(ctx context.Context, username, password string) (TokenResponse, error) {
	var resp TokenResponse
	err := c.PostJSON(ctx, PathLogin, LoginRequest{Username: username, Password: password}, &resp, "")
	return resp, err
}

// Refresh обновляет пару токенов по refresh токену.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	var resp TokenResponse
	err := c.PostJSON(ctx, PathRefresh, RefreshRequest{RefreshToken: refreshToken}, &resp, "")
	return resp, err
}
