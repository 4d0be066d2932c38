package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "id", cfg.App.Locale)
	assert.Equal(t, 300, cfg.QR.Size)
	assert.Equal(t, 2, cfg.QR.Margin)
	assert.Equal(t, "#000000", cfg.QR.DarkColor)
	assert.Equal(t, "#FFFFFF", cfg.QR.LightColor)
	assert.Equal(t, "Sistem Kasir", cfg.Menu.RestaurantName)
	assert.Equal(t, "http://localhost:8080/menu", cfg.Menu.MenuURL())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.MinIO.Enabled())
	assert.False(t, cfg.HTTP.TrustProxy)
}

func TestLoadLayersConfigFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_NAME=warung\nHTTP_PORT=7000\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.env"), []byte("HTTP_PORT=7100\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warung", cfg.App.Name, "value only in .env survives")
	assert.Equal(t, 7100, cfg.HTTP.Port, "config.env overrides .env")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("PUBLIC_BASE_URL", "https://kasir.example/")
	t.Setenv("HTTP_TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 2.5, cfg.Limits.RPS)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.True(t, cfg.MinIO.Enabled())
	assert.Equal(t, "https://kasir.example/menu", cfg.Menu.MenuURL())
	assert.True(t, cfg.HTTP.TrustProxy)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":          {"STORAGE_DRIVER": "sqlite"},
		"postgres without url":    {"STORAGE_DRIVER": "postgres"},
		"production without jwt":  {"APP_ENV": "production"},
		"non positive expiration": {"JWT_EXPIRATION_MINUTES": "0"},
		"zero qr size":            {"QR_SIZE": "0"},
		"oversized qr":            {"QR_SIZE": "4096"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
