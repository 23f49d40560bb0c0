package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultAPIAddr, cfg.APIAddr)
	assert.Equal(t, defaultEnv, cfg.Env)
	assert.Equal(t, defaultRedisAddr, cfg.RedisAddr)
	assert.Equal(t, defaultDBName, cfg.DBName)
	assert.Equal(t, defaultAllowedOrigins, cfg.AllowedOrigin)
	assert.Equal(t, time.Duration(defaultJWTExpiryHours)*time.Hour, cfg.JWTExpiry)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_EXPIRY_HOURS", "1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.APIAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigin)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("LOG_LEVEL", "chatty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
}

func TestDSN(t *testing.T) {
	cfg := Config{
		DBUser:     "app",
		DBPassword: "pw",
		DBHost:     "db",
		DBPort:     "3306",
		DBName:     "devicehub",
	}
	dsn := cfg.DSN()
	assert.Equal(t, "app:pw@tcp(db:3306)/devicehub?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", dsn)
	// 影響行数をマッチ行数として報告させる。リポジトリ層の存在判定が依存している
	assert.Contains(t, dsn, "clientFoundRows=true")
}
