package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Session   SessionConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Addr() string { return s.Host + ":" + s.Port }

// BackendConfig points at the solar grid REST API.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type SessionConfig struct {
	Store        string
	CookieName   string
	CookieSecure bool
	// TTL bounds how long an idle record is retained by Redis/Mongo. Zero keeps
	// it until logout.
	TTL                 time.Duration
	ClearOnUnauthorized bool
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

// RateLimitConfig applies to the anonymous login and signup endpoints.
type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	viper.SetDefault("BACKEND_URL", "http://localhost:8080")
	viper.SetDefault("BACKEND_TIMEOUT", 15)
	viper.SetDefault("SESSION_STORE", StoreMemory)
	viper.SetDefault("SESSION_COOKIE_NAME", "solargrid_ctx")
	viper.SetDefault("SESSION_COOKIE_SECURE", false)
	viper.SetDefault("SESSION_TTL", 0)
	viper.SetDefault("SESSION_CLEAR_ON_UNAUTHORIZED", false)
	viper.SetDefault("MONGODB_DATABASE", "solargrid")
	viper.SetDefault("MONGODB_COLLECTION", "sessions")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)
	viper.SetDefault("RATE_LIMIT_RPS", 1.0)
	viper.SetDefault("RATE_LIMIT_BURST", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			Host:            viper.GetString("SERVER_HOST"),
			Environment:     viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: time.Duration(viper.GetInt("SERVER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(viper.GetString("BACKEND_URL"), "/"),
			Timeout: time.Duration(viper.GetInt("BACKEND_TIMEOUT")) * time.Second,
		},
		Session: SessionConfig{
			Store:               strings.ToLower(strings.TrimSpace(viper.GetString("SESSION_STORE"))),
			CookieName:          viper.GetString("SESSION_COOKIE_NAME"),
			CookieSecure:        viper.GetBool("SESSION_COOKIE_SECURE"),
			TTL:                 time.Duration(viper.GetInt("SESSION_TTL")) * time.Minute,
			ClearOnUnauthorized: viper.GetBool("SESSION_CLEAR_ON_UNAUTHORIZED"),
		},
		MongoDB: MongoDBConfig{
			URI:        viper.GetString("MONGODB_URI"),
			Database:   viper.GetString("MONGODB_DATABASE"),
			Collection: viper.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute http(s) URL, got %q", c.Backend.URL)
	}
	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("SESSION_STORE=redis requires REDIS_HOST")
		}
	case StoreMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("SESSION_STORE=mongo requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q (want memory, redis or mongo)", c.Session.Store)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	if c.RateLimit.UseRedis && c.Redis.Host == "" {
		return fmt.Errorf("RATE_LIMIT_USE_REDIS requires REDIS_HOST")
	}
	return nil
}
