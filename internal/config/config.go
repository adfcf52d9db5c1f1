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

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	History struct {
		Limit int `yaml:"limit"`
	} `yaml:"history"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.ReadTimeout = "15s"
	cfg.Server.WriteTimeout = "15s"
	cfg.Storage.Driver = DriverSQLite
	cfg.Storage.Path = "data/cgf-quiz.db"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.History.Limit = 5
	return cfg
}

// Load reads .env, then the YAML config at path, then applies environment
// overrides. A missing YAML file yields defaults.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	overrides := map[string]*string{
		"PORT":                &cfg.Server.Port,
		"QUIZ_STORAGE_DRIVER": &cfg.Storage.Driver,
		"QUIZ_STORAGE_PATH":   &cfg.Storage.Path,
		"REDIS_ADDR":          &cfg.Redis.Addr,
		"POSTGRES_URL":        &cfg.Postgres.URL,
		"LOG_LEVEL":           &cfg.Log.Level,
		"LOG_FORMAT":          &cfg.Log.Format,
	}
	for name, dst := range overrides {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("QUIZ_HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QUIZ_HISTORY_LIMIT: %w", err)
		}
		cfg.History.Limit = n
	}
	return nil
}

// Validate checks the storage driver has what it needs.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis driver")
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return errors.New("postgres.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
