package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/kasir/internal/qrcode"
	"github.com/spf13/viper"
)

// Config groups the application settings read through viper from the
// environment and, optionally, a .env / config.env file.
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Limits  RateLimitConfig
	Menu    MenuConfig
	QR      QRConfig
	Kafka   KafkaConfig
	MinIO   MinIOConfig
	Admin   AdminConfig
}

type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Locale   string // default language for messages when Accept-Language is absent
	LogLevel string
}

type HTTPConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type StorageConfig struct {
	Driver      string
	DatabaseURL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// RateLimitConfig applies per client IP on login and registration.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type MenuConfig struct {
	RestaurantName string
	Contact        string
	PublicBaseURL  string
}

// MenuURL is the default target offered for URL QR codes.
func (c MenuConfig) MenuURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/menu"
}

type QRConfig struct {
	Size       int
	Margin     int
	DarkColor  string
	LightColor string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// AdminConfig seeds the first admin account at startup when both fields are set.
type AdminConfig struct {
	Username string
	Password string
}

var configFiles = []string{".env", "config.env", filepath.Join("config", "config.env")}

// Load reads the configuration. Environment variables take precedence over files.
func Load() (*Config, error) {
	v := viper.New()

	// Later files layer over earlier ones; the environment wins over all.
	v.SetConfigType("env")
	for _, path := range configFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "kasir"),
			Locale:   getString(v, "APP_LOCALE", "id"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:            getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:            getInt(v, "HTTP_PORT", 8080),
			ShutdownTimeout: getDuration(v, "HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			TrustProxy:      getBool(v, "HTTP_TRUST_PROXY", false),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getString(v, "STORAGE_DRIVER", DriverMemory)),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			Prefix:   getString(v, "REDIS_PREFIX", "kasir"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "kasir"),
		},
		Limits: RateLimitConfig{
			RPS:   getFloat(v, "RATE_LIMIT_RPS", 1),
			Burst: getInt(v, "RATE_LIMIT_BURST", 5),
		},
		Menu: MenuConfig{
			RestaurantName: getString(v, "MENU_RESTAURANT_NAME", "Sistem Kasir"),
			Contact:        getString(v, "MENU_CONTACT", "Hubungi kami untuk pemesanan"),
			PublicBaseURL:  getString(v, "PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		QR: QRConfig{
			Size:       getInt(v, "QR_SIZE", 300),
			Margin:     getInt(v, "QR_MARGIN", 2),
			DarkColor:  getString(v, "QR_DARK_COLOR", "#000000"),
			LightColor: getString(v, "QR_LIGHT_COLOR", "#FFFFFF"),
		},
		Kafka: KafkaConfig{
			Brokers: getList(v, "KAFKA_BROKERS"),
			Topic:   getString(v, "KAFKA_TOPIC", "kasir.events"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getString(v, "MINIO_ENDPOINT", ""),
			AccessKey: getString(v, "MINIO_ACCESS_KEY", ""),
			SecretKey: getString(v, "MINIO_SECRET_KEY", ""),
			Bucket:    getString(v, "MINIO_BUCKET", "kasir-artifacts"),
			UseSSL:    getBool(v, "MINIO_USE_SSL", false),
		},
		Admin: AdminConfig{
			Username: getString(v, "ADMIN_USERNAME", ""),
			Password: getString(v, "ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis:
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("STORAGE_DRIVER=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.JWT.Secret == "" && c.App.Env == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES must be positive")
	}
	if c.QR.Size <= 0 || c.QR.Margin < 0 {
		return fmt.Errorf("QR_SIZE must be positive and QR_MARGIN non-negative")
	}
	if c.QR.Size > qrcode.MaxSize {
		return fmt.Errorf("QR_SIZE must not exceed %d", qrcode.MaxSize)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(v.GetString(key), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// getDuration accepts Go durations ("15s") or a plain number of seconds.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	s := v.GetString(key)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func getList(v *viper.Viper, key string) []string {
	var out []string
	for _, part := range strings.Split(v.GetString(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
