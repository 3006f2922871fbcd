// Package config loads client settings from .env files, SEATS_* environment
// variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/Sternrassler/seats-client/pkg/client"
	"github.com/Sternrassler/seats-client/pkg/logging"
)

// DefaultBaseURL is the EU region of the seating API.
const DefaultBaseURL = "https://api-eu.seatsio.net"

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "SEATS"

// Config holds the client settings.
type Config struct {
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	SecretKey        string        `mapstructure:"secret_key" validate:"required"`
	WorkspaceKey     string        `mapstructure:"workspace_key"`
	UserAgent        string        `mapstructure:"user_agent"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries       int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RedisAddr        string        `mapstructure:"redis_addr" validate:"omitempty,hostname_port"`
	RedisDB          int           `mapstructure:"redis_db" validate:"gte=0"`
	CacheRetention   time.Duration `mapstructure:"cache_retention" validate:"gte=0"`
	MaxRateLimitWait time.Duration `mapstructure:"max_rate_limit_wait" validate:"gte=0"`
	LogLevel         string        `mapstructure:"log_level"`
	LogPretty        bool          `mapstructure:"log_pretty"`
}

var keys = []string{
	"base_url", "secret_key", "workspace_key", "user_agent", "timeout",
	"max_retries", "redis_addr", "redis_db", "cache_retention",
	"max_rate_limit_wait", "log_level", "log_pretty",
}

// Load reads .env from the working directory when present, then the config
// file at path (skipped when empty). SEATS_* variables, including those from
// .env, take precedence over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := client.DefaultConfig(DefaultBaseURL, "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("log_level", string(logging.LevelInfo))
	v.SetDefault("log_pretty", false)

	// Unmarshal only sees keys viper knows about
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the log level name.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// newValidator reports fields by their environment key, e.g. SEATS_SECRET_KEY.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" {
			return fld.Name
		}
		return EnvPrefix + "_" + strings.ToUpper(name)
	})
	return v
}

// ClientConfig converts the settings into a transport configuration.
// redisClient may be nil.
func (c *Config) ClientConfig(redisClient *redis.Client) client.Config {
	cfg := client.DefaultConfig(c.BaseURL, c.SecretKey)
	cfg.WorkspaceKey = c.WorkspaceKey
	if c.UserAgent != "" {
		cfg.UserAgent = c.UserAgent
	}
	cfg.Timeout = c.Timeout
	cfg.MaxRetries = c.MaxRetries
	cfg.Redis = redisClient
	cfg.CacheRetention = c.CacheRetention
	cfg.MaxRateLimitWait = c.MaxRateLimitWait
	return cfg
}

// RedisClient connects to RedisAddr, or returns nil when none is configured.
func (c *Config) RedisClient() *redis.Client {
	if c.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr: c.RedisAddr,
		DB:   c.RedisDB,
	})
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		level = logging.LevelInfo
	}
	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Pretty = c.LogPretty
	return cfg
}
