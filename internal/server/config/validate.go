package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// minSigningKeyLen — минимальная длина ключа HS256.
const minSigningKeyLen = 32

// Validate проверяет, что конфиг заполнен корректно и безопасно.
//
// Проверяются все секции, ошибки собираются через errors.Join, чтобы
// при старте было видно сразу все проблемы, а не первую из них.
// Если ошибка есть, сервер НЕ стартует.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateEnv(),
		c.validateServer(),
		c.validateTLS(),
		c.validateDB(),
		c.validateAuth(),
		c.validatePassword(),
		c.validateSecurity(),
		c.validateLog(),
	)
}

func (c *Config) validateEnv() error {
	switch c.Env {
	case "", "dev", "stage":
		return nil
	case "prod":
		// в проде токены и пароли не должны ходить открытым текстом
		if !c.TLS.Enabled {
			return errors.New("env=prod требует tls.enabled=true")
		}
		return nil
	default:
		return fmt.Errorf("env должен быть dev|stage|prod (сейчас %q)", c.Env)
	}
}

func (c *Config) validateServer() error {
	var errs []error
	if c.Server.Host == "" {
		errs = append(errs, errors.New("server.host обязателен"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port некорректен: %d", c.Server.Port))
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("server.max_body_bytes не может быть отрицательным"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateTLS() error {
	if !c.TLS.Enabled {
		return nil
	}
	if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
		return errors.New("tls.cert_file и tls.key_file обязательны при tls.enabled=true")
	}
	switch c.TLS.MinVersion {
	case "":
		c.TLS.MinVersion = "1.2"
	case "1.2", "1.3":
	case "1.0", "1.1":
		return fmt.Errorf("tls.min_version=%s небезопасен; используй 1.2 или 1.3", c.TLS.MinVersion)
	default:
		return fmt.Errorf("tls.min_version должен быть 1.2|1.3 (сейчас %q)", c.TLS.MinVersion)
	}
	return nil
}

func (c *Config) validateDB() error {
	if c.DB.DSN == "" || strings.Contains(c.DB.DSN, "${") {
		return errors.New("db.dsn обязателен (через ${DATABASE_DSN} или прямо строкой)")
	}
	if c.DB.MaxIdleConns > 0 && c.DB.MaxOpenConns > 0 && c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return fmt.Errorf("db.max_idle_conns (%d) больше db.max_open_conns (%d)", c.DB.MaxIdleConns, c.DB.MaxOpenConns)
	}
	return nil
}

func (c *Config) validateAuth() error {
	var errs []error

	if alg := strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm)); alg != "HS256" {
		errs = append(errs, fmt.Errorf("auth.jwt.algorithm должен быть HS256 (сейчас %q)", c.Auth.JWT.Algorithm))
	}

	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	switch {
	case key == "":
		errs = append(errs, errors.New("auth.jwt.signing_key обязателен (через ${JWT_SIGNING_KEY} или прямо строкой)"))
	case strings.Contains(key, "${"):
		// ${JWT_SIGNING_KEY} не подставился — переменная окружения не задана
		errs = append(errs, fmt.Errorf("auth.jwt.signing_key содержит неподставленную переменную: %q (нужно задать JWT_SIGNING_KEY)", key))
	case len(key) < minSigningKeyLen:
		errs = append(errs, fmt.Errorf("auth.jwt.signing_key слишком короткий (%d символов); нужно >= %d", len(key), minSigningKeyLen))
	}

	if c.Auth.AccessTTL > 0 && c.Auth.RefreshTTL > 0 && c.Auth.AccessTTL >= c.Auth.RefreshTTL {
		errs = append(errs, fmt.Errorf("auth.access_ttl (%s) должен быть меньше auth.refresh_ttl (%s)", c.Auth.AccessTTL, c.Auth.RefreshTTL))
	}
	if c.Auth.Sessions.MaxSessionsPerUser <= 0 {
		errs = append(errs, errors.New("auth.sessions.max_sessions_per_user должен быть > 0"))
	}
	return errors.Join(errs...)
}

func (c *Config) validatePassword() error {
	switch strings.ToLower(c.Password.Hasher) {
	case "argon2id":
		a := c.Password.Argon2
		if a.Time == 0 || a.MemoryKiB == 0 || a.Threads == 0 {
			return errors.New("password.argon2 должен быть настроен для argon2id")
		}
	case "bcrypt":
		cost := c.Password.Bcrypt.Cost
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return fmt.Errorf("password.bcrypt.cost должен быть в диапазоне %d..%d (сейчас %d)", bcrypt.MinCost, bcrypt.MaxCost, cost)
		}
	default:
		return fmt.Errorf("password.hasher должен быть argon2id|bcrypt (сейчас %q)", c.Password.Hasher)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	rl := c.Security.RateLimit
	if !rl.Enabled {
		return nil
	}
	var errs []error
	if rl.RPS <= 0 {
		errs = append(errs, errors.New("security.rate_limit.rps должен быть > 0 при включённом rate_limit"))
	}
	if rl.Burst <= 0 {
		errs = append(errs, errors.New("security.rate_limit.burst должен быть > 0 при включённом rate_limit"))
	}
	if rl.Key != "ip" && rl.Key != "user" {
		errs = append(errs, fmt.Errorf("security.rate_limit.key должен быть ip|user (сейчас %q)", rl.Key))
	}
	return errors.Join(errs...)
}

func (c *Config) validateLog() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level должен быть debug|info|warn|error (сейчас %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format должен быть json|console (сейчас %q)", c.Log.Format)
	}
	return nil
}
