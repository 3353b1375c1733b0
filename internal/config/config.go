package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCORSAllowOrigins is the local dashboard origin.
const DefaultCORSAllowOrigins = "http://localhost:3000"

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Proxy      ProxyConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	ServiceNow ServiceNowConfig
	Assistant  AssistantConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSAllowOrigins      string
}

// ProxyConfig controls the standalone CORS relay.
type ProxyConfig struct {
	Host string
	Port string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr keeps
// credentials in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Format      string
	ServiceName string
	Development bool
}

// AuthConfig defines assistant session token parameters.
type AuthConfig struct {
	JWTSecret            string
	SessionTokenTTLHours int
}

// ServiceNowConfig describes the ticketing endpoints.
type ServiceNowConfig struct {
	ProxyURL            string
	CustomIncidentsURL  string
	HTTPTimeoutSeconds  int
	CredentialsStoreKey string
}

// AssistantConfig describes the generative completion service. APIKey has
// no default; without it the dispatcher answers from local responses only.
type AssistantConfig struct {
	APIKey   string
	Endpoint string
	Model    string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	appName := getEnv("APP_NAME", "pal-assistant")
	appEnv := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  appName,
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", DefaultCORSAllowOrigins),
		},
		Proxy: ProxyConfig{
			Host: getEnv("PROXY_HOST", "127.0.0.1"),
			Port: getEnv("PROXY_PORT", "3001"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			ServiceName: appName,
			Development: appEnv == "development",
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTokenTTLHours: getEnvAsInt("AUTH_SESSION_TOKEN_TTL_HOURS", 12),
		},
		ServiceNow: ServiceNowConfig{
			ProxyURL:            getEnv("SERVICENOW_PROXY_URL", "http://localhost:3001/api-proxy"),
			CustomIncidentsURL:  getEnv("SERVICENOW_CUSTOM_INCIDENTS_URL", "https://cirruspl-ayhub-svcs-prod-neu-incident-mgmt.azurewebsites.net/api/assignedincidents"),
			HTTPTimeoutSeconds:  getEnvAsInt("SERVICENOW_HTTP_TIMEOUT_SECONDS", 0),
			CredentialsStoreKey: getEnv("SERVICENOW_CREDENTIALS_KEY", "servicenow-config"),
		},
		Assistant: AssistantConfig{
			APIKey:   os.Getenv("GEMINI_API_KEY"),
			Endpoint: getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models"),
			Model:    getEnv("GEMINI_MODEL", "gemini-pro"),
		},
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

// Addr returns the relay bind address.
func (p ProxyConfig) Addr() string {
	return fmt.Sprintf("%s:%s", p.Host, p.Port)
}

// HTTPTimeout returns the outbound timeout; zero means none.
func (s ServiceNowConfig) HTTPTimeout() time.Duration {
	if s.HTTPTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// SessionTokenTTL returns how long an assistant session token stays valid.
func (a AuthConfig) SessionTokenTTL() time.Duration {
	return time.Duration(a.SessionTokenTTLHours) * time.Hour
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
