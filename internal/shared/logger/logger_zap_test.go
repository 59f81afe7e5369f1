package logger_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/IvanChernomyrdin/go-accounts/internal/shared/logger"
)

func TestNew_CreatesLogFileAndWrites(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "http.log")

	l := logger.New(logger.Options{Dir: dir})
	l.Info("test message")
	// закрываем буферы zap
	_ = l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if !regexp.MustCompile(`\btest message\b`).MatchString(s) {
		t.Fatalf("expected log to contain message, got: %q", s)
	}

	// проверяем формат времени: "HH:MM:SS DD.MM.YYYY"
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	if !timeRe.MatchString(s) {
		t.Fatalf("expected custom time format (HH:MM:SS DD.MM.YYYY), got: %q", s)
	}
}

func TestHTTPLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	dir := t.TempDir()

	l := logger.New(logger.Options{Dir: dir, Format: "json"})
	l.LogRequest("GET", "/accounts/details/", 200, 24, 1.5)
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "http.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	mustContain := []string{
		`"msg":"HTTP request"`,
		`"method":"GET"`,
		`"uri":"/accounts/details/"`,
		`"status":200`,
		`"response_size":24`,
		`"duration_ms"`,
	}
	for _, sub := range mustContain {
		if !regexp.MustCompile(regexp.QuoteMeta(sub)).MatchString(s) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()

	l := logger.New(logger.Options{Dir: dir, Level: "warn"})
	l.Info("should be dropped")
	l.Warn("should be kept")
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "http.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if regexp.MustCompile(`should be dropped`).MatchString(s) {
		t.Fatalf("info message must be filtered on warn level: %q", s)
	}
	if !regexp.MustCompile(`should be kept`).MatchString(s) {
		t.Fatalf("warn message must be written: %q", s)
	}
}
