package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "carepoint", cfg.Name)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Twilio.Enabled())
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("OTP_BURST", "5")
	t.Setenv("KAFKA_WRITE_TIMEOUT", "500ms")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 5, cfg.OTP.Burst)
	assert.Equal(t, 500*time.Millisecond, cfg.Kafka.WriteTimeout)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=9090\nTWILIO_ACCOUNT_SID=AC1\nTWILIO_AUTH_TOKEN=tok\nTWILIO_VERIFY_SERVICE_SID=VA1\n"), 0o600))

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.True(t, cfg.Twilio.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("HTTP_READ_TIMEOUT", "soon")
		_, err := load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "HTTP_READ_TIMEOUT")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "STORAGE_DRIVER")
	})

	t.Run("default signing key in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "JWT_SIGNING_KEY")
	})

	t.Run("zero kafka write timeout", func(t *testing.T) {
		t.Setenv("KAFKA_WRITE_TIMEOUT", "0s")
		_, err := load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "KAFKA_WRITE_TIMEOUT")
	})
}
