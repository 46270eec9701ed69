package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the console
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Analytics AnalyticsConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host             string
	Port             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
}

// UpstreamConfig describes the account application API
type UpstreamConfig struct {
	BaseURL               string
	APIKey                string
	Timeout               time.Duration
	MaxRetries            int
	RetryInitialBackoffMs int
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	PrivateKey          *rsa.PrivateKey
	PublicKey           *rsa.PublicKey
	Issuer              string
	AccessTokenDuration time.Duration
}

type SecurityConfig struct {
	AuthEnabled        bool
	RateLimitPerSecond int
	RateLimitBurst     int
}

// AnalyticsConfig controls the engine defaults and the snapshot scheduler
type AnalyticsConfig struct {
	PageSize          int
	ClampDiversity    bool
	SnapshotEnabled   bool
	SnapshotInterval  time.Duration
	SnapshotRetention time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, after loading .env when present
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:             getEnv("SERVER_HOST", "localhost"),
			Port:             getEnv("SERVER_PORT", "8080"),
			Environment:      getEnv("APP_ENV", "development"),
			ReadTimeout:      getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:     getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout:  getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSAllowOrigins: getSliceEnv("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Upstream: UpstreamConfig{
			BaseURL:               getEnv("ACCOUNT_API_BASE_URL", "https://ds-ocr-project.vercel.app"),
			APIKey:                os.Getenv("ACCOUNT_API_KEY"),
			Timeout:               getDurationEnv("ACCOUNT_API_TIMEOUT", 10*time.Second),
			MaxRetries:            getIntEnv("ACCOUNT_API_MAX_RETRIES", 2),
			RetryInitialBackoffMs: getIntEnv("ACCOUNT_API_RETRY_BACKOFF_MS", 200),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "console"),
			Password:        getEnv("DB_PASSWORD", "console"),
			Name:            getEnv("DB_NAME", "applications_console"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "console.db"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getIntEnv("REDIS_DB", 0),
			TTL:      getDurationEnv("CACHE_TTL", 30*time.Second),
		},
		JWT: JWTConfig{
			Issuer:              getEnv("JWT_ISSUER", "applications-console"),
			AccessTokenDuration: getDurationEnv("JWT_ACCESS_TOKEN_DURATION", 24*time.Hour),
		},
		Security: SecurityConfig{
			AuthEnabled:        getBoolEnv("AUTH_ENABLED", true),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 10),
		},
		Analytics: AnalyticsConfig{
			PageSize:          getIntEnv("PAGE_SIZE", 10),
			ClampDiversity:    getBoolEnv("ANALYTICS_CLAMP_DIVERSITY", true),
			SnapshotEnabled:   getBoolEnv("ANALYTICS_SNAPSHOT_ENABLED", true),
			SnapshotInterval:  getDurationEnv("ANALYTICS_SNAPSHOT_INTERVAL", time.Hour),
			SnapshotRetention: getDurationEnv("ANALYTICS_SNAPSHOT_RETENTION", 30*24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", ""),
		},
	}

	if err := cfg.loadJWTKeys(); err != nil {
		slog.Error("Failed to load JWT keys", "error", err)
		os.Exit(1)
	}
	return cfg
}

func (c *Config) IsDevelopment() bool { return c.Server.Environment == "development" }
func (c *Config) IsProduction() bool  { return c.Server.Environment == "production" }
func (c *Config) IsTesting() bool     { return c.Server.Environment == "testing" }

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// loadJWTKeys reads base64-encoded PEM keys from the environment. Outside production a
// missing pair is replaced by a freshly generated one.
func (c *Config) loadJWTKeys() error {
	privEnv := os.Getenv("JWT_PRIVATE_KEY")
	pubEnv := os.Getenv("JWT_PUBLIC_KEY")

	if privEnv != "" && pubEnv != "" {
		priv, pub, err := c.loadKeysFromEnvVars(privEnv, pubEnv)
		if err != nil {
			return err
		}
		c.JWT.PrivateKey, c.JWT.PublicKey = priv, pub
		return nil
	}

	if c.IsProduction() {
		return errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY are required in production")
	}

	priv, pub, err := GenerateRSAKeyPair()
	if err != nil {
		return err
	}
	c.JWT.PrivateKey, c.JWT.PublicKey = priv, pub
	return nil
}

func (c *Config) loadKeysFromEnvVars(privB64, pubB64 string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privPEM, err := base64.StdEncoding.DecodeString(privB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PRIVATE_KEY: %w", err)
	}
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PUBLIC_KEY: %w", err)
	}
	priv, err := loadRSAPrivateKey(privPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid JWT_PRIVATE_KEY: %w", err)
	}
	pub, err := loadRSAPublicKey(pubPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid JWT_PUBLIC_KEY: %w", err)
	}
	return priv, pub, nil
}

func loadRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return key, nil
}

func loadRSAPublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}
	return key, nil
}

// GenerateRSAKeyPair creates a 2048-bit key pair for development and tests
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	return priv, &priv.PublicKey, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
