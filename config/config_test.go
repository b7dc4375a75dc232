package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setRequiredEnv sets the minimal environment for LoadConfig to succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "videotube")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "videotube")
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("S3_BUCKET", "videotube-media")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY", "minio")
	t.Setenv("S3_SECRET_KEY", "minio123")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 10, cfg.DB.MaxSize)

	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 240*time.Hour, cfg.Auth.RefreshTokenDuration)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)

	assert.Equal(t, "us-east-1", cfg.Media.Region)
	assert.Equal(t, "http://localhost:9000", cfg.Media.PublicBaseURL)

	assert.Equal(t, "8000", cfg.Server.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("DB_POOL_SIZE", "32")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "5m")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "72h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("MEDIA_PUBLIC_BASE_URL", "https://cdn.example.com/")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 15432, cfg.DB.Port)
	assert.Equal(t, 32, cfg.DB.MaxSize)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 72*time.Hour, cfg.Auth.RefreshTokenDuration)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	// Trailing slash is stripped so URL joining stays predictable.
	assert.Equal(t, "https://cdn.example.com", cfg.Media.PublicBaseURL)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfigCollectsAllErrors(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_EXPIRY")
}

func TestLoadConfigMissingRequired(t *testing.T) {
	// Only one variable set: every other required variable should be named.
	t.Setenv("DB_USER", "videotube")

	_, err := LoadConfig()
	require.Error(t, err)
	for _, key := range []string{
		"DB_PASSWORD", "DB_NAME",
		"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET",
		"S3_BUCKET", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoadConfigRejectsSharedSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_SECRET", "same-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "same-secret")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be equal")
}

func TestLoadConfigClampsBcryptCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "99")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}
