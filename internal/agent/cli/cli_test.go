package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-accounts/internal/agent/api"
	"github.com/IvanChernomyrdin/go-accounts/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-accounts/internal/agent/config"
)

// newApp поднимает HTTPS тестовый сервер и App с временным файлом учётных данных.
func newApp(t *testing.T, mux *http.ServeMux, creds *config.Credentials) *cli.App {
	t.Helper()

	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)

	if creds == nil {
		creds = &config.Credentials{}
	}
	return &cli.App{
		ServerURL: srv.URL,
		Insecure:  true,
		CredsPath: filepath.Join(t.TempDir(), "creds.json"),
		Creds:     creds,
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRegisterCmd_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathRegister, func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Username != "alice" || req.Email != "alice@example.com" || req.MobileNumber != "+79990001122" {
			t.Fatalf("unexpected request: %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.RegisterResponse{UserID: "user-1"})
	})
	app := newApp(t, mux, nil)

	out, err := run(t, cli.NewRegisterCmd(app),
		"--username", "alice",
		"--email", "alice@example.com",
		"--password", "StrongPass123",
		"--mobile", "+79990001122",
	)

	require.NoError(t, err)
	require.Contains(t, out, "registration successful, user_id=user-1")
}

func TestRegisterCmd_MissingUsername(t *testing.T) {
	app := newApp(t, http.NewServeMux(), nil)

	_, err := run(t, cli.NewRegisterCmd(app), "--password", "StrongPass123")
	require.Error(t, err)
}

func TestRegisterCmd_PasswordFromStdin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathRegister, func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "FromStdin123" {
			t.Fatalf("expected password from stdin, got %q", req.Password)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.RegisterResponse{UserID: "user-2"})
	})
	app := newApp(t, mux, nil)

	cmd := cli.NewRegisterCmd(app)
	cmd.SetIn(strings.NewReader("FromStdin123\n"))

	_, err := run(t, cmd, "--username", "bob", "--password-stdin")
	require.NoError(t, err)
}

func TestLoginCmd_Success_SavesTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Username != "alice" || req.Password != "StrongPass123" {
			t.Fatalf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(api.TokenResponse{AccessToken: "access-1", RefreshToken: "refresh-1"})
	})
	app := newApp(t, mux, nil)

	out, err := run(t, cli.NewLoginCmd(app), "--username", "alice", "--password", "StrongPass123")
	require.NoError(t, err)
	require.Contains(t, out, "login ok (tokens saved)")

	// проверим, что токены реально сохранились в файл
	loaded, err := config.Load(app.CredsPath)
	require.NoError(t, err)
	require.Equal(t, "alice", loaded.Username)
	require.Equal(t, "access-1", loaded.AccessToken)
	require.Equal(t, "refresh-1", loaded.RefreshToken)
}

func TestLoginCmd_InvalidCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	})
	app := newApp(t, mux, nil)

	_, err := run(t, cli.NewLoginCmd(app), "--username", "alice", "--password", "nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid credentials")
}

func TestRefreshCmd_NoToken(t *testing.T) {
	app := newApp(t, http.NewServeMux(), nil)

	_, err := run(t, cli.NewRefreshCmd(app))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no refresh_token")
}

func TestRefreshCmd_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathRefresh, func(w http.ResponseWriter, r *http.Request) {
		var req api.RefreshRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.RefreshToken != "refresh-1" {
			t.Fatalf("unexpected refresh token %q", req.RefreshToken)
		}
		json.NewEncoder(w).Encode(api.TokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2"})
	})
	app := newApp(t, mux, &config.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"})

	out, err := run(t, cli.NewRefreshCmd(app))
	require.NoError(t, err)
	require.Contains(t, out, "refresh ok")

	loaded, err := config.Load(app.CredsPath)
	require.NoError(t, err)
	require.Equal(t, "access-2", loaded.AccessToken)
	require.Equal(t, "refresh-2", loaded.RefreshToken)
}

func TestDetailsCmd_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathDetails, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			t.Fatalf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Hello, alice@example.com"))
	})
	app := newApp(t, mux, &config.Credentials{AccessToken: "access-1"})

	out, err := run(t, cli.NewDetailsCmd(app))
	require.NoError(t, err)
	require.Equal(t, "Hello, alice@example.com\n", out)
}

// истёкший access обновляется по refresh, запрос повторяется
func TestDetailsCmd_RefreshesOnUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathDetails, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			http.Error(w, "token expired", http.StatusUnauthorized)
			return
		}
		w.Write([]byte("Hello, alice@example.com"))
	})
	mux.HandleFunc(api.PathRefresh, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.TokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2"})
	})
	app := newApp(t, mux, &config.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"})

	out, err := run(t, cli.NewDetailsCmd(app))
	require.NoError(t, err)
	require.Contains(t, out, "Hello, alice@example.com")
	require.Equal(t, "access-2", app.Creds.AccessToken)
}

func TestDetailsCmd_NotLoggedIn(t *testing.T) {
	app := newApp(t, http.NewServeMux(), nil)

	_, err := run(t, cli.NewDetailsCmd(app))
	require.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, cli.NewVersionCmd("1.2.3", "2026-01-01"))
	require.NoError(t, err)
	require.Equal(t, "version=1.2.3\nbuild_date=2026-01-01\ngo="+runtime.Version()+"\n", out)
}

func TestVersionCmd_Short(t *testing.T) {
	out, err := run(t, cli.NewVersionCmd("1.2.3", "2026-01-01"), "--short")
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", out)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := cli.NewRootCmd("dev", "unknown")

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"register", "login", "refresh", "details", "health", "version"} {
		require.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_LoadsCredentials(t *testing.T) {
	p := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, config.Save(p, &config.Credentials{AccessToken: "a"}))

	root := cli.NewRootCmd("dev", "unknown")
	_, err := run(t, root, "--credentials", p, "version")
	require.NoError(t, err)
}

func TestHealthCmd_Ready(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathHealth, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.HealthStatus{Status: "ok"})
	})
	mux.HandleFunc(api.PathReady, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.HealthStatus{Status: "ok"})
	})
	app := newApp(t, mux, nil)

	out, err := run(t, cli.NewHealthCmd(app))
	require.NoError(t, err)
	require.Equal(t, "live: ok\nready: ok\n", out)
}

func TestHealthCmd_NotReady(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathHealth, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.HealthStatus{Status: "ok"})
	})
	mux.HandleFunc(api.PathReady, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(api.HealthStatus{Status: "unavailable"})
	})
	app := newApp(t, mux, nil)

	out, err := run(t, cli.NewHealthCmd(app))
	require.Error(t, err)
	require.Contains(t, out, "ready: unavailable")
}
