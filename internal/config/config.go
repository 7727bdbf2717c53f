// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Log modes accepted in CALC_LOG_MODE.
const (
	LogModeProduction  = "production"
	LogModeDevelopment = "development"
)

type Config struct {
	Addr            string
	ServiceName     string
	LogMode         string
	OTelEnabled     bool
	OTelLogs        bool
	SessionTTL      time.Duration
	MaxSessions     int
	ShutdownTimeout time.Duration
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:            ":8080",
		ServiceName:     "calculator-api",
		LogMode:         LogModeProduction,
		OTelEnabled:     true,
		OTelLogs:        false,
		SessionTTL:      30 * time.Minute,
		MaxSessions:     1000,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load reads .env when present and then the process environment.
// Existing process environment variables are not overridden by .env.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromEnv(os.LookupEnv)
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// FromEnv builds a Config from lookup, falling back to Default for unset
// variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var err error

	if v, ok := lookup("CALC_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("OTEL_SERVICE_NAME"); ok && v != "" {
		cfg.ServiceName = v
	}
	if v, ok := lookup("CALC_LOG_MODE"); ok && v != "" {
		if v != LogModeProduction && v != LogModeDevelopment {
			return Config{}, fmt.Errorf("CALC_LOG_MODE: unknown mode %q", v)
		}
		cfg.LogMode = v
	}
	if cfg.OTelEnabled, err = boolVar(lookup, "CALC_OTEL_ENABLED", cfg.OTelEnabled); err != nil {
		return Config{}, err
	}
	if cfg.OTelLogs, err = boolVar(lookup, "CALC_OTEL_LOGS", cfg.OTelLogs); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationVar(lookup, "CALC_SESSION_TTL", cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = durationVar(lookup, "CALC_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if v, ok := lookup("CALC_MAX_SESSIONS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("CALC_MAX_SESSIONS: invalid value %q", v)
		}
		cfg.MaxSessions = n
	}

	return cfg, nil
}

func boolVar(lookup func(string) (string, bool), key string, def bool) (bool, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func durationVar(lookup func(string) (string, bool), key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
