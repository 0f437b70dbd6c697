// Package config loads server configuration from an optional YAML file
// plus environment overrides. A config that fails validation aborts
// startup; nothing else in the engine is allowed to be fatal.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	// DSN empty means in-memory repositories.
	DSN string `mapstructure:"dsn"`
}

type NarrationConfig struct {
	// Endpoint empty means the deterministic template narrator.
	Endpoint       string        `mapstructure:"endpoint"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

type SessionConfig struct {
	DefaultMaxRounds int           `mapstructure:"default_max_rounds"`
	RetreatIncrement int           `mapstructure:"retreat_increment"`
	NarrationTimeout time.Duration `mapstructure:"narration_timeout"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Narration NarrationConfig `mapstructure:"narration"`
	Session   SessionConfig   `mapstructure:"session"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("narration.request_timeout", "15s")
	v.SetDefault("narration.max_elapsed_time", "30s")

	v.SetDefault("session.default_max_rounds", 20)
	v.SetDefault("session.retreat_increment", 1)
	v.SetDefault("session.narration_timeout", "20s")
}

// Load reads configuration from path (optional) and AEONISK_* env vars.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("AEONISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.dsn", "AEONISK_DB_DSN")
	_ = v.BindEnv("narration.api_key", "AEONISK_NARRATION_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return NewFromViper(v)
}

func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Session.DefaultMaxRounds < 1 {
		return fmt.Errorf("session.default_max_rounds must be at least 1")
	}
	if c.Session.RetreatIncrement < 1 {
		return fmt.Errorf("session.retreat_increment must be at least 1")
	}
	if c.Session.NarrationTimeout <= 0 {
		return fmt.Errorf("session.narration_timeout must be positive")
	}
	if c.Narration.Endpoint != "" && c.Narration.RequestTimeout <= 0 {
		return fmt.Errorf("narration.request_timeout must be positive")
	}
	return nil
}
