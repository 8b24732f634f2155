package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Development fallbacks. Deployments override them through the environment.
const (
	DefaultSessionSecret = "warbler-dev-session-secret"
	DefaultSigningKey    = "warbler-dev-signing-key"
)

type Config struct {
	Port     string         `mapstructure:"port"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Timeline TimelineConfig `mapstructure:"timeline"`
	Server   ServerConfig   `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type SessionConfig struct {
	Secret string `mapstructure:"secret"`
	Secure bool   `mapstructure:"secure"`
}

type JWTConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TTL        time.Duration `mapstructure:"ttl"`
}

type TimelineConfig struct {
	Limit int `mapstructure:"limit"`
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads .env (if any), then configs/config.yml (or configPath), then
// WARBLER_* environment variables. DATABASE_URL is honoured for database.url.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("WARBLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", "WARBLER_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind database url: %w", err)
	}
	if err := v.BindEnv("port", "WARBLER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind port: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no config file, defaults and env only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("database.url", "sqlite://warbler.db")
	v.SetDefault("session.secret", DefaultSessionSecret)
	v.SetDefault("session.secure", false)
	v.SetDefault("jwt.signing_key", DefaultSigningKey)
	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("timeline.limit", 100)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

func (c *Config) validate() error {
	switch {
	case c.Session.Secret == "":
		return errors.New("config: session.secret must not be empty")
	case c.JWT.SigningKey == "":
		return errors.New("config: jwt.signing_key must not be empty")
	case c.JWT.TTL <= 0:
		return errors.New("config: jwt.ttl must be positive")
	case c.Timeline.Limit <= 0:
		return errors.New("config: timeline.limit must be positive")
	}
	return nil
}

// UsesDevSecrets reports whether the built-in development secrets are active.
func (c *Config) UsesDevSecrets() bool {
	return c.Session.Secret == DefaultSessionSecret || c.JWT.SigningKey == DefaultSigningKey
}
