// Package config loads service configuration from an optional YAML file with
// environment-variable overrides. Defaults are always valid, so the server
// starts with no file and no environment at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Limits holds the sandbox resource policy.
type Limits struct {
	DefaultTimeoutSeconds int `yaml:"default_timeout_seconds"`
	MaxTimeoutSeconds     int `yaml:"max_timeout_seconds"`
	MaxProcesses          int `yaml:"max_processes"`
	MemoryLimitMB         int `yaml:"memory_limit_mb"`
	MonitorIntervalMs     int `yaml:"monitor_interval_ms"`
}

// AuthClient is one API client allowed to request tokens.
// SecretHash is a bcrypt hash of the client secret, never the secret itself.
type AuthClient struct {
	ID         string `yaml:"id"`
	SecretHash string `yaml:"secret_hash"`
}

// Auth configures machine-to-machine authentication. When JWTSecret is empty
// the API runs open and the token route is not registered.
type Auth struct {
	JWTSecret string       `yaml:"jwt_secret"`
	Clients   []AuthClient `yaml:"clients"`
}

// Config is the full service configuration.
type Config struct {
	Port        int    `yaml:"port"`
	SandboxRoot string `yaml:"sandbox_root"`
	DBPath      string `yaml:"db_path"`
	LogLevel    string `yaml:"log_level"`
	Limits      Limits `yaml:"limits"`
	Auth        Auth   `yaml:"auth"`
}

// Load reads the YAML file at path (if it exists), then applies RUNNER_*
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:     8080,
		DBPath:   "data/runner.db",
		LogLevel: "info",
		Limits: Limits{
			DefaultTimeoutSeconds: 30,
			MaxTimeoutSeconds:     120,
			MaxProcesses:          20,
			MemoryLimitMB:         512,
			MonitorIntervalMs:     500,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RUNNER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("RUNNER_SANDBOX_ROOT"); v != "" {
		cfg.SandboxRoot = v
	}
	if v := os.Getenv("RUNNER_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("RUNNER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RUNNER_DEFAULT_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.DefaultTimeoutSeconds = n
		}
	}
	if v := os.Getenv("RUNNER_MAX_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxTimeoutSeconds = n
		}
	}
	if v := os.Getenv("RUNNER_MAX_PROCESSES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxProcesses = n
		}
	}
	if v := os.Getenv("RUNNER_MEMORY_LIMIT_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MemoryLimitMB = n
		}
	}
	if v := os.Getenv("RUNNER_MONITOR_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MonitorIntervalMs = n
		}
	}
	if v := os.Getenv("RUNNER_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}
