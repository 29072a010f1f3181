package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CHECKLISTS_CONFIG", "DATABASE_URL", "HTTP_ADDR", "CORS_ORIGINS", "JWT_SECRET", "TOKEN_TTL",
		"TELEGRAM_TOKEN", "REPORT_INTERVAL_HOURS", "REPORT_TIME", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "checklists.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Hour, cfg.ReportInterval)
	assert.False(t, cfg.BotEnabled())
	assert.Error(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := "database_url: file.db\nhttp_addr: \":9000\"\njwt_secret: from-file\ntoken_ttl: 2h\nreport_time: \"08:30\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("REPORT_INTERVAL_HOURS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file.db", cfg.DatabaseURL)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 3*time.Hour, cfg.ReportInterval)
	assert.Equal(t, "08:30", cfg.ReportTime)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadReportTime(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPORT_TIME", "25:99")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseInterval(""))
	assert.Equal(t, time.Duration(0), parseInterval("-2"))
	assert.Equal(t, time.Duration(0), parseInterval("abc"))
	assert.Equal(t, 6*time.Hour, parseInterval("6"))
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	_, _, err = ParseClock("7pm")
	assert.Error(t, err)
}

func TestLoadCORSOrigins(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cors_origins:\n  - https://app.example.com\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)

	t.Setenv("CORS_ORIGINS", " http://localhost:3000, ,https://app.example.com ")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
}
