// Package main is the entry point for the code runner server.
//
// main stays minimal: load configuration, build the logger, wire the
// executor and server, start. All logic lives in the internal packages.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devready/code-runner/internal/config"
	"github.com/devready/code-runner/internal/executor/local"
	"github.com/devready/code-runner/internal/server"
)

func main() {
	configPath := flag.String("config", "runner.yaml", "path to the YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Ensure the data directory exists before SQLite tries to create its file.
	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	execCfg := local.DefaultConfig()
	if cfg.SandboxRoot != "" {
		execCfg.SandboxRoot = cfg.SandboxRoot
	}
	execCfg.DefaultTimeout = cfg.Limits.DefaultTimeoutSeconds
	execCfg.MaxTimeout = cfg.Limits.MaxTimeoutSeconds
	execCfg.MaxProcesses = cfg.Limits.MaxProcesses
	execCfg.MemoryLimit = int64(cfg.Limits.MemoryLimitMB) * 1024 * 1024
	execCfg.MonitorInterval = time.Duration(cfg.Limits.MonitorIntervalMs) * time.Millisecond

	exec, err := local.New(execCfg, logger)
	if err != nil {
		logger.Error("failed to create executor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret not set, API authentication is disabled")
	}
	clients := make(map[string]string, len(cfg.Auth.Clients))
	for _, c := range cfg.Auth.Clients {
		clients[c.ID] = c.SecretHash
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		DBPath:    cfg.DBPath,
		JWTSecret: cfg.Auth.JWTSecret,
		Clients:   clients,
	}, logger, exec)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
