package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://localhost/app", cfg.DatabaseURL)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 0, cfg.RedisDB)
	require.Equal(t, runtime.NumCPU(), cfg.WorkerCount)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "/", cfg.SuccessRedirect)
	require.True(t, cfg.CookieSecure)
	require.False(t, cfg.Apple.VerifySignature)
	require.Equal(t, 10*time.Second, cfg.Apple.ExchangeTimeout)
	require.Empty(t, cfg.Apple.TeamID)
}

func TestLoadFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("APPLE_TEAM_ID", "TEAM")
	t.Setenv("APPLE_CLIENT_ID", "com.example.web")
	t.Setenv("APPLE_VERIFY_SIGNATURE", "true")
	t.Setenv("APPLE_EXCHANGE_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 4, cfg.WorkerCount)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, "TEAM", cfg.Apple.TeamID)
	require.Equal(t, "com.example.web", cfg.Apple.ClientID)
	require.True(t, cfg.Apple.VerifySignature)
	require.Equal(t, 3*time.Second, cfg.Apple.ExchangeTimeout)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("database_url: postgres://file/app\nredis_addr: file:6379\nhttp_addr: \":9090\"\n"), 0o600))
	t.Setenv("CONFIG_FILE", file)
	t.Setenv("REDIS_ADDR", "env:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://file/app", cfg.DatabaseURL)
	require.Equal(t, "env:6379", cfg.RedisAddr)
	require.Equal(t, ":9090", cfg.HTTPAddr)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing database", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		_, err := Load()
		require.ErrorContains(t, err, "DATABASE_URL")
	})
	t.Run("missing redis", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/app")
		t.Setenv("REDIS_ADDR", "")
		_, err := Load()
		require.ErrorContains(t, err, "REDIS_ADDR")
	})
	t.Run("bad worker count", func(t *testing.T) {
		setRequired(t)
		t.Setenv("WORKER_COUNT", "0")
		_, err := Load()
		require.ErrorContains(t, err, "WORKER_COUNT")
	})
	t.Run("missing config file", func(t *testing.T) {
		setRequired(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		require.Error(t, err)
	})
}
