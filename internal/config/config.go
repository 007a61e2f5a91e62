package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port            string        `envconfig:"PORT" default:"3000"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	StaticDir       string        `envconfig:"STATIC_DIR"`

	// PostgreSQL. DatabaseURL wins over the individual fields when set.
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	DBUser            string        `envconfig:"USER_DB" default:"postgres"`
	DBPassword        string        `envconfig:"PASSWORD_DB"`
	DBHost            string        `envconfig:"HOST_DB" default:"localhost"`
	DBPort            int           `envconfig:"DB_PORT" default:"5432"`
	DBName            string        `envconfig:"DB_NAME" default:"ledger"`
	DBSSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	DBQueryTimeout    time.Duration `envconfig:"DB_QUERY_TIMEOUT" default:"5s"`
	DBAutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	// Redis. An empty address disables the view cache and event publishing.
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	RedisDB           int           `envconfig:"REDIS_DB" default:"0"`
	RedisPoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	RedisDialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	RedisReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	RedisWriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
	CacheTTL          time.Duration `envconfig:"CACHE_TTL" default:"10s"`
	EventsEnabled     bool          `envconfig:"EVENTS_ENABLED" default:"true"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads the given env files (".env" when none are given) and binds the
// process environment into a Config. Missing env files are not an error.
func Load(logger *slog.Logger, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Warn("No .env file found, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info("Config loaded",
		"port", cfg.Port,
		"db", cfg.MaskedDSN(),
		"db_query_timeout", cfg.DBQueryTimeout,
		"redis", cfg.RedisAddr,
		"cache_ttl", cfg.CacheTTL,
	)
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DBQueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be positive, got %s", c.DBQueryTimeout)
	}
	if c.RedisPoolSize <= 0 {
		return fmt.Errorf("REDIS_POOL_SIZE must be positive, got %d", c.RedisPoolSize)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// DSN returns the PostgreSQL connection URL.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	if c.DBPassword == "" {
		u.User = url.User(c.DBUser)
	}
	return u.String()
}

// MaskedDSN is DSN with the password replaced, for logging.
func (c *Config) MaskedDSN() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "****"
	}
	return u.Redacted()
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
