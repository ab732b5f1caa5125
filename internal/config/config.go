package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Development fallbacks. Running with either of these outside development is a
// misconfiguration reported by AuthConfig.Warnings.
const (
	DefaultAccessSecret  = "dev-access-secret"
	DefaultRefreshSecret = "dev-refresh-secret"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Breaker   BreakerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
	ConnectAttempts int
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token and credential parameters.
type AuthConfig struct {
	AccessSecret      string
	RefreshSecret     string
	AccessTTLMinutes  int
	RefreshTTLMinutes int
	LeewaySeconds     int
	BcryptCost        int
	PhoneRegion       string
	DenylistCapacity  int
	production        bool
}

// RateLimitConfig throttles credential endpoints per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// BreakerConfig tunes the circuit breaker in front of the user store.
type BreakerConfig struct {
	MaxRequests         uint32
	IntervalSeconds     int
	TimeoutSeconds      int
	ConsecutiveFailures uint32
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "crovio-api"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ConnectAttempts: getEnvAsInt("POSTGRES_CONNECT_ATTEMPTS", 5),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AccessSecret:      getEnv("AUTH_ACCESS_SECRET", DefaultAccessSecret),
			RefreshSecret:     getEnv("AUTH_REFRESH_SECRET", DefaultRefreshSecret),
			AccessTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TTL_MINUTES", 15),
			RefreshTTLMinutes: getEnvAsInt("AUTH_REFRESH_TTL_MINUTES", 60*24*7),
			LeewaySeconds:     getEnvAsInt("AUTH_LEEWAY_SECONDS", 0),
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 12),
			PhoneRegion:       getEnv("AUTH_PHONE_REGION", "US"),
			DenylistCapacity:  getEnvAsInt("AUTH_DENYLIST_CAPACITY", 10000),
			production:        !isDevelopment(env),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_AUTH_PER_MINUTE", 30),
			Burst:             getEnvAsInt("RATE_LIMIT_AUTH_BURST", 10),
		},
		Breaker: BreakerConfig{
			MaxRequests:         uint32(getEnvAsInt("BREAKER_MAX_REQUESTS", 3)),
			IntervalSeconds:     getEnvAsInt("BREAKER_INTERVAL_SECONDS", 10),
			TimeoutSeconds:      getEnvAsInt("BREAKER_TIMEOUT_SECONDS", 30),
			ConsecutiveFailures: uint32(getEnvAsInt("BREAKER_CONSECUTIVE_FAILURES", 5)),
		},
	}

	if err := cfg.Auth.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTTL returns the lifetime of access tokens.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the lifetime of refresh tokens.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTTLMinutes) * time.Minute
}

// Leeway returns the clock skew tolerated on expiry checks.
func (a AuthConfig) Leeway() time.Duration {
	if a.LeewaySeconds <= 0 {
		return 0
	}
	return time.Duration(a.LeewaySeconds) * time.Second
}

// Warnings lists configuration problems that do not prevent startup but
// must be surfaced to operators.
func (a AuthConfig) Warnings() []string {
	if !a.production {
		return nil
	}
	var out []string
	if a.AccessSecret == DefaultAccessSecret {
		out = append(out, "AUTH_ACCESS_SECRET is using the development default")
	}
	if a.RefreshSecret == DefaultRefreshSecret {
		out = append(out, "AUTH_REFRESH_SECRET is using the development default")
	}
	return out
}

func (a AuthConfig) validate() error {
	if a.AccessTTLMinutes <= 0 {
		return fmt.Errorf("AUTH_ACCESS_TTL_MINUTES must be positive, got %d", a.AccessTTLMinutes)
	}
	if a.RefreshTTLMinutes <= 0 {
		return fmt.Errorf("AUTH_REFRESH_TTL_MINUTES must be positive, got %d", a.RefreshTTLMinutes)
	}
	if a.AccessSecret == a.RefreshSecret {
		return fmt.Errorf("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must differ")
	}
	return nil
}

// Interval returns the breaker's counting window.
func (b BreakerConfig) Interval() time.Duration {
	return time.Duration(b.IntervalSeconds) * time.Second
}

// Timeout returns how long the breaker stays open.
func (b BreakerConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func isDevelopment(env string) bool {
	switch strings.ToLower(env) {
	case "development", "dev", "local", "test":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
