package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"DATABASE_URL", "BOT_TOKEN", "ENV", "COOKIE_SECURE", "PORT", "SESSION_TTL", "TELEGRAM_POLL_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "todolist.db", cfg.DatabaseURL)
	require.False(t, cfg.UsesPostgres())
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 14*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 30, cfg.TelegramPollTimeout)
	require.Equal(t, time.Hour, cfg.TelegramCodeTTL)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, "dev", cfg.Env)
	require.False(t, cfg.CookieSecure)
	require.Empty(t, cfg.BotToken)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://todo:todo@db:5432/todo?sslmode=disable")
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("HOUSEKEEPING_INTERVAL", "15") // minutes
	t.Setenv("TELEGRAM_POLL_TIMEOUT", "not-a-number")

	cfg := LoadConfig()
	require.True(t, cfg.UsesPostgres())
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 48*time.Hour, cfg.SessionTTL)
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, 30, cfg.TelegramPollTimeout)
	require.True(t, cfg.CookieSecure)

	t.Setenv("COOKIE_SECURE", "false")
	require.False(t, LoadConfig().CookieSecure)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BOT_TOKEN=123:from-file\nJWT_ISSUER=file-issuer\n"), 0o600))

	t.Setenv("JWT_ISSUER", "env-issuer")
	t.Setenv("BOT_TOKEN", "")
	require.NoError(t, os.Unsetenv("BOT_TOKEN"))

	cfg := LoadConfig()
	require.Equal(t, "123:from-file", cfg.BotToken)
	require.Equal(t, "env-issuer", cfg.Issuer, "set variables win over .env")
}
