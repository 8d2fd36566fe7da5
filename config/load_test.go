package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
Env = "staging"

[ApiServer]
Port = "9000"
DefaultLimit = 5
MaxLimit = 10

[Auth]
TokenSecret = "from-file"
`), 0o600))

	t.Setenv("API_MAX_LIMIT", "42")
	t.Setenv("ACCESS_TOKEN_DURATION", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Env)
	require.Equal(t, "9000", cfg.ApiServer.Port)
	require.Equal(t, 5, cfg.ApiServer.DefaultLimit)
	require.Equal(t, 42, cfg.ApiServer.MaxLimit)
	require.Equal(t, "from-file", cfg.Auth.TokenSecret)
	require.Equal(t, time.Hour, cfg.Auth.AccessToken.Expiration)
	require.Equal(t, "staging", cfg.Storage.Env)
}

func TestDatabaseConfigs_ConnectionString(t *testing.T) {
	cfg := DatabaseConfigs{
		Host:         "db",
		Port:         "3306",
		Database:     "stakefit",
		User:         "root",
		Password:     "pw",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute,
	}

	require.Equal(t,
		"root:pw@tcp(db:3306)/stakefit?charset=utf8mb4&parseTime=True&loc=UTC"+
			"&timeout=5s&readTimeout=30s&writeTimeout=1m0s",
		cfg.ConnectionString())

	cfg.DialTimeout, cfg.ReadTimeout, cfg.WriteTimeout = 0, 0, 0
	require.Equal(t, "root:pw@tcp(db:3306)/stakefit?charset=utf8mb4&parseTime=True&loc=UTC", cfg.ConnectionString())
}

func TestLoad_Timeouts(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "secret")
	t.Setenv("DB_READ_TIMEOUT", "3s")
	t.Setenv("API_REQUEST_TIMEOUT", "7s")
	t.Setenv("API_TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.Database.ReadTimeout)
	require.Equal(t, Default().Database.DialTimeout, cfg.Database.DialTimeout)
	require.Equal(t, 7*time.Second, cfg.ApiServer.RequestTimeout)
	require.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.ApiServer.TrustedProxies)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, Default().ApiServer.DefaultLimit, cfg.ApiServer.DefaultLimit)
	require.Equal(t, "secret", cfg.Auth.TokenSecret)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing token secret", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "")
		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "secret")
		t.Setenv("API_DEFAULT_LIMIT", "abc")
		_, err := Load("")
		require.Error(t, err)
	})
}
