package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	mcpadapter "github.com/kirillkom/resume-screener/internal/adapters/mcp"
	"github.com/kirillkom/resume-screener/internal/bootstrap"
	"github.com/kirillkom/resume-screener/internal/config"
	"github.com/kirillkom/resume-screener/internal/observability/logging"
)

var version = "dev"

// stdout carries the MCP protocol, so every log line goes to stderr.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid_config", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := mcpadapter.NewServer(app.Screener, version, logger)
	if err := srv.ServeStdio(); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		app.Close()
		os.Exit(1)
	}
}
