package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvDevelopment = "development"

// Config is the process configuration, resolved once in main and passed down explicitly
type Config struct {
	Env             string        `env:"ENV, default=development"`
	LogLevel        string        `env:"LOG_LEVEL, default=info"`
	ServerPort      string        `env:"SERVER_PORT, default=8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=5s"`

	JWT JWTConfig
	DB  DBConfig
}

// JWTConfig holds token signing parameters
type JWTConfig struct {
	SecretKey       string `env:"JWT_SECRET_KEY"`
	ExpirationHours int64  `env:"JWT_EXPIRATION_HOURS, default=24"`
}

// TTL returns the token lifetime
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// DBConfig holds database connection parameters. URL wins over the individual parts.
type DBConfig struct {
	URL            string        `env:"DATABASE_URL"`
	Host           string        `env:"DB_HOST"`
	Port           string        `env:"DB_PORT, default=5432"`
	User           string        `env:"DB_USER"`
	Password       string        `env:"DB_PASSWORD"`
	Name           string        `env:"DB_NAME"`
	SSLMode        string        `env:"DB_SSLMODE, default=disable"`
	ConnectRetries int           `env:"DB_CONNECT_RETRIES, default=5"`
	RetryInterval  time.Duration `env:"DB_RETRY_INTERVAL, default=5s"`
}

// DSN returns the connection string for pgx
func (c DBConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	if c.Host == "" || c.User == "" || c.Name == "" {
		return "", errors.New("database environment variables not set (DATABASE_URL or DB_HOST, DB_USER, DB_NAME)")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String(), nil
}

// IsDevelopment reports whether the process runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads the server configuration from the environment
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY not set in environment")
	}
	if _, err := cfg.DB.DSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDBConfig reads only the database section; used by tools that never issue tokens
func LoadDBConfig(ctx context.Context) (*DBConfig, error) {
	return loadDB(ctx, envconfig.OsLookuper())
}

func loadDB(ctx context.Context, lookuper envconfig.Lookuper) (*DBConfig, error) {
	var cfg DBConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if _, err := cfg.DSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
