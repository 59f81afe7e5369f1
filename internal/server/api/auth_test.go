package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/api"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

func TestHandler_Register_BadJSON(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec.Body.String() == "" {
		t.Fatalf("expected error body, got empty")
	}
}

func TestHandler_Register_BadBirthDate(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	body, _ := json.Marshal(api.RegisterRequest{Username: "alice", Password: "StrongPass123", BirthDate: "17.05.1990"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandler_Register_Success(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	userID := uuid.New()

	deps.users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, u models.User) (uuid.UUID, error) {
			if u.Username != "alice" || u.Email != "alice@example.com" {
				t.Fatalf("unexpected user: %+v", u)
			}
			if u.BirthDate == nil || u.BirthDate.Format("2006-01-02") != "1990-05-17" {
				t.Fatalf("unexpected birth date: %v", u.BirthDate)
			}
			if u.PasswordHash == "" {
				t.Fatalf("expected non-empty password hash")
			}
			return userID, nil
		})

	body, _ := json.Marshal(api.RegisterRequest{
		Username:     "alice",
		Email:        "alice@example.com",
		Password:     "StrongPass123",
		MobileNumber: "+79990001122",
		BirthDate:    "1990-05-17",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set(api.ContentType, api.JsonContentType)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp api.RegisterResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UserID != userID.String() {
		t.Fatalf("expected user_id %q, got %q", userID.String(), resp.UserID)
	}
}

func TestHandler_Register_AlreadyExists(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	deps.users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(uuid.Nil, fmt.Errorf("%w: email", serr.ErrAlreadyExists))

	body, _ := json.Marshal(api.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "StrongPass123"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected %d, got %d", http.StatusConflict, rec.Code)
	}
	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "already exists: email" {
		t.Fatalf("unexpected error body: %q", resp.Error)
	}
}

// неизвестные поля в теле запроса отклоняются
func TestHandler_Login_UnknownField(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"username":"alice","password":"x","admin":true}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{serr.ErrBadJSON, http.StatusBadRequest},
		{serr.ErrInvalidInput, http.StatusBadRequest},
		{serr.ErrInvalidCredentials, http.StatusUnauthorized},
		{serr.ErrUnauthorized, http.StatusUnauthorized},
		{serr.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: username", serr.ErrAlreadyExists), http.StatusConflict},
		{serr.ErrTooManyRequests, http.StatusTooManyRequests},
		{serr.ErrInternal, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := api.StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHandler_Login_BadJSON(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandler_Login_Success(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	password := "StrongPass123"
	hash, err := crypto.HashPassword(password, crypto.Argon2Params{
		Time:      1,
		MemoryKiB: 64 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := models.User{ID: uuid.New(), Username: "alice", PasswordHash: hash, IsActive: true}

	deps.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(u, nil)
	deps.users.EXPECT().UpdateLastLogin(gomock.Any(), u.ID, gomock.Any()).Return(nil)
	deps.sessions.EXPECT().
		Create(gomock.Any(), u.ID, gomock.Any(), gomock.Any()).
		Return(uuid.New(), nil)
	deps.sessions.EXPECT().RevokeExcess(gomock.Any(), u.ID, 5).Return(nil)

	body, _ := json.Marshal(api.LoginRequest{Username: "alice", Password: password})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set(api.ContentType, api.JsonContentType)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}

	var resp api.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected non-empty tokens, got %+v", resp)
	}
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	deps.users.EXPECT().
		GetByUsername(gomock.Any(), "ghost").
		Return(models.User{}, serr.ErrNotFound)

	body, _ := json.Marshal(api.LoginRequest{Username: "ghost", Password: "WrongPass123"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandler_Refresh_Success(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	oldID, newID := uuid.New(), uuid.New()
	u := models.User{ID: uuid.New(), Username: "alice", IsActive: true}

	deps.sessions.EXPECT().
		GetByRefreshHash(gomock.Any(), gomock.Any()).
		Return(models.Session{ID: oldID, UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}, nil)
	deps.users.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
	deps.sessions.EXPECT().
		Create(gomock.Any(), u.ID, gomock.Any(), gomock.Any()).
		Return(newID, nil)
	deps.sessions.EXPECT().RevokeAndReplace(gomock.Any(), oldID, newID).Return(nil)

	body, _ := json.Marshal(api.RefreshRequest{RefreshToken: "refresh"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestHandler_Refresh_Unauthorized(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	deps.sessions.EXPECT().
		GetByRefreshHash(gomock.Any(), gomock.Any()).
		Return(models.Session{}, serr.ErrUnauthorized)

	body, _ := json.Marshal(api.RefreshRequest{RefreshToken: "unknown"})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandler_Refresh_Empty(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
