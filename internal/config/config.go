package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage: postgres | mongo | memory
	Store            string `toml:"store"`
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	MongoURI         string `toml:"mongo_uri"`
	MongoDBName      string `toml:"mongo_db_name"`

	// redis, used for rate limiting
	RedisHost              string `toml:"redis_host"`
	RedisPort              string `toml:"redis_port"`
	RateLimitAllowedPerMin int    `toml:"rate_limit_allowed_per_min"`

	CorsAllowedOrigins  []string `toml:"cors_allowed_origins"`
	StaticDir           string   `toml:"static_dir"`
	MaxRequestBodyBytes int64    `toml:"max_request_body_bytes"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML config file and picks the section for the given env.
// A few values can be overridden with env vars, see applyEnvOverrides.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT env var [%s]: %w", port, err)
		}
		cfg.Port = p
	}
	if mongoURI := os.Getenv("MONGO_URI"); mongoURI != "" {
		cfg.MongoURI = mongoURI
	}
	if store := os.Getenv("TRACKER_STORE"); store != "" {
		cfg.Store = store
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres store needs postgres_host, postgres_port and postgres_db_name")
		}
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDBName == "" {
			return fmt.Errorf("mongo store needs mongo_uri and mongo_db_name")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store: [%s]", c.Store)
	}

	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.PostgresMaxConns < 0 {
		return fmt.Errorf("invalid postgres_max_conns: %d", c.PostgresMaxConns)
	}
	if c.MaxRequestBodyBytes < 0 {
		return fmt.Errorf("invalid max_request_body_bytes: %d", c.MaxRequestBodyBytes)
	}
	if c.RateLimitAllowedPerMin < 0 {
		return fmt.Errorf("invalid rate_limit_allowed_per_min: %d", c.RateLimitAllowedPerMin)
	}
	return nil
}
