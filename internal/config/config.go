package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	Sequence   SequenceConfig   `yaml:"sequence"`
	Statistics StatisticsConfig `yaml:"statistics"`
	Redis      RedisConfig      `yaml:"redis"`
	Transport  TransportConfig  `yaml:"transport"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SequenceConfig selects the counter store and bounds allocation retries.
type SequenceConfig struct {
	Backend     string        `yaml:"backend"`
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"`
}

type StatisticsConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	ModeHTTP  = "http"
	ModeStdio = "stdio"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "spacedesk.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Sequence: SequenceConfig{
			Backend:     BackendSQLite,
			MaxAttempts: 5,
			Backoff:     10 * time.Millisecond,
		},
		Statistics: StatisticsConfig{
			MaxAttempts: 5,
			Backoff:     10 * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:   "127.0.0.1:6379",
			Prefix: "spacedesk",
		},
		Transport: TransportConfig{
			Mode: ModeHTTP,
		},
	}
}

// Load reads configuration from defaults, an optional .env file, an optional YAML
// file and SPACEDESK_* environment variables, later sources winning.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("SPACEDESK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch c.Sequence.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("invalid sequence backend %q (want %s or %s)", c.Sequence.Backend, BackendSQLite, BackendRedis)
	}
	switch c.Transport.Mode {
	case ModeHTTP, ModeStdio:
	default:
		return fmt.Errorf("invalid transport mode %q (want %s or %s)", c.Transport.Mode, ModeHTTP, ModeStdio)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Sequence.MaxAttempts <= 0 || c.Statistics.MaxAttempts <= 0 {
		return errors.New("max_attempts must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = n
		return nil
	}
	duration := func(name string, dst *time.Duration) error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = d
		return nil
	}

	str("SPACEDESK_SERVER_HOST", &cfg.Server.Host)
	str("SPACEDESK_DB_PATH", &cfg.DB.Path)
	str("SPACEDESK_LOG_LEVEL", &cfg.Log.Level)
	str("SPACEDESK_LOG_PATH", &cfg.Log.Path)
	str("SPACEDESK_SEQUENCE_BACKEND", &cfg.Sequence.Backend)
	str("SPACEDESK_REDIS_ADDR", &cfg.Redis.Addr)
	str("SPACEDESK_REDIS_PASSWORD", &cfg.Redis.Password)
	str("SPACEDESK_REDIS_PREFIX", &cfg.Redis.Prefix)
	str("SPACEDESK_TRANSPORT_MODE", &cfg.Transport.Mode)

	if v := os.Getenv("SPACEDESK_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SPACEDESK_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}

	for _, err := range []error{
		integer("SPACEDESK_SERVER_PORT", &cfg.Server.Port),
		integer("SPACEDESK_REDIS_DB", &cfg.Redis.DB),
		integer("SPACEDESK_SEQUENCE_MAX_ATTEMPTS", &cfg.Sequence.MaxAttempts),
		integer("SPACEDESK_STATISTICS_MAX_ATTEMPTS", &cfg.Statistics.MaxAttempts),
		duration("SPACEDESK_SEQUENCE_BACKOFF", &cfg.Sequence.Backoff),
		duration("SPACEDESK_STATISTICS_BACKOFF", &cfg.Statistics.Backoff),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
