package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	jwtSecretEnvVar        = "PORTFOLIO_JWT_SECRET"
	postgresPasswordEnvVar = "PORTFOLIO_POSTGRES_PASSWORD"
	redisPasswordEnvVar    = "PORTFOLIO_REDIS_PASS"

	minJWTSecretLen = 32
	defaultTokenTTL = 30 * 24 * time.Hour
)

var ErrJWTSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", minJWTSecretLen)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresSSL    string `toml:"postgres_ssl_mode"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// auth
	TokenTTLHours               int      `toml:"token_ttl_hours"`
	TokenRevocationEnabled      bool     `toml:"token_revocation_enabled"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	AdminUsernames              []string `toml:"admin_usernames"`

	// http
	AllowedOrigins []string `toml:"allowed_origins"`
	// set only when a reverse proxy overwrites X-Real-Ip / X-Forwarded-For
	TrustProxyHeaders bool `toml:"trust_proxy_headers"`

	// secrets, never read from the config file
	JWTSecret        string `toml:"-"`
	PostgresPassword string `toml:"-"`
	RedisPassword    string `toml:"-"`
}

type Toml struct {
	Development *Config
	Production  *Config
	Test        *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "test":
		cfg = t.Test
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found", env)
	}
	return cfg, nil
}

// Load reads the config for env (see Read) and validates it
func Load(env, path string) (*Config, error) {
	cfg, err := Read(env, path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid [%s] config: %w", env, err)
	}

	return cfg, nil
}

// Read reads the TOML config from path, picks the table for env and fills the secrets from env vars
func Read(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.JWTSecret = os.Getenv(jwtSecretEnvVar)
	cfg.PostgresPassword = os.Getenv(postgresPasswordEnvVar)
	cfg.RedisPassword = os.Getenv(redisPasswordEnvVar)

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be set")
	}
	if len(c.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("%w (set %s)", ErrJWTSecretTooShort, jwtSecretEnvVar)
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host and db name must be set")
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	if c.TokenTTLHours <= 0 {
		return defaultTokenTTL
	}
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// IsAdmin reports whether the username may manage contact messages.
// With no admins configured every authenticated user is privileged.
func (c *Config) IsAdmin(username string) bool {
	if len(c.AdminUsernames) == 0 {
		return true
	}
	for _, admin := range c.AdminUsernames {
		if admin == username {
			return true
		}
	}
	return false
}
