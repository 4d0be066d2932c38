package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/kasir/internal/config"
	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", Locale: "en"},
		HTTP:    config.HTTPConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		JWT:     config.JWTConfig{Secret: "test-secret", Expiration: 5, Issuer: "kasir"},
		Limits:  config.RateLimitConfig{RPS: 100, Burst: 100},
		Menu:    config.MenuConfig{RestaurantName: "Warung Tes", PublicBaseURL: "http://kasir.test"},
		QR:      config.QRConfig{Size: 256, Margin: 2},
		Admin:   config.AdminConfig{Username: "admin", Password: "admin123"},
	}
}

func TestNewMemoryAppServesRoutes(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.SeedAdmin(context.Background()))
	require.NoError(t, a.SeedAdmin(context.Background()), "seeding twice is a no-op")

	r := a.Router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "admin123"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))

	req := httptest.NewRequest(http.MethodGet, "/qr/defaults", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var defaults struct {
		URL  string `json:"url"`
		Size int    `json:"size"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&defaults))
	assert.Equal(t, "http://kasir.test/menu", defaults.URL)
	assert.Equal(t, 256, defaults.Size)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"

	_, err := New(context.Background(), cfg, logger.Nop())
	assert.ErrorContains(t, err, "sqlite")
}
