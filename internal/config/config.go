// Package config loads service settings from defaults, an optional YAML
// file and CALC_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"scicalc/internal/engine"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the runtime configuration of the calculator service.
type Config struct {
	Addr            string           `yaml:"addr"`
	SessionBackend  string           `yaml:"session_backend"`
	SessionTTL      time.Duration    `yaml:"session_ttl"`
	SweepInterval   time.Duration    `yaml:"sweep_interval"`
	Redis           RedisConfig      `yaml:"redis"`
	AngleMode       engine.AngleMode `yaml:"angle_mode"`
	OTLPLogs        bool             `yaml:"otlp_logs"`
	ShutdownTimeout time.Duration    `yaml:"shutdown_timeout"`
}

// RedisConfig addresses the shared session store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// String keeps the password out of logs.
func (r RedisConfig) String() string {
	return fmt.Sprintf("{Addr:%s DB:%d Password:REDACTED}", r.Addr, r.DB)
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Addr:            ":8080",
		SessionBackend:  BackendMemory,
		SessionTTL:      30 * time.Minute,
		SweepInterval:   time.Minute,
		Redis:           RedisConfig{Addr: "localhost:6379"},
		AngleMode:       engine.Degrees,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis backend needs an address", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidConfig, c.SessionBackend)
	}

	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}

	if c.SessionTTL < 0 {
		return fmt.Errorf("%w: negative session ttl", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("CALC_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("CALC_SESSION_BACKEND"); ok {
		c.SessionBackend = v
	}
	if v, ok := lookup("CALC_REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := lookup("CALC_REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}

	if err := envDuration(lookup, "CALC_SESSION_TTL", &c.SessionTTL); err != nil {
		return err
	}
	if err := envDuration(lookup, "CALC_SWEEP_INTERVAL", &c.SweepInterval); err != nil {
		return err
	}
	if err := envDuration(lookup, "CALC_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout); err != nil {
		return err
	}

	if v, ok := lookup("CALC_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CALC_REDIS_DB: %v", ErrInvalidConfig, err)
		}
		c.Redis.DB = db
	}

	if v, ok := lookup("CALC_OTLP_LOGS"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: CALC_OTLP_LOGS: %v", ErrInvalidConfig, err)
		}
		c.OTLPLogs = enabled
	}

	if v, ok := lookup("CALC_ANGLE_MODE"); ok {
		mode, err := engine.ParseAngleMode(v)
		if err != nil {
			return fmt.Errorf("%w: CALC_ANGLE_MODE: %v", ErrInvalidConfig, err)
		}
		c.AngleMode = mode
	}

	return nil
}

func envDuration(lookup func(string) (string, bool), name string, dst *time.Duration) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}

	*dst = d
	return nil
}
