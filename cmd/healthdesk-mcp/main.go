package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/healthdesk/internal/config"
	"github.com/claude/healthdesk/internal/mcp"
	"github.com/claude/healthdesk/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	remoteURL := flag.String("remote", "", "base URL of a remote HealthDesk server (default: connect to the local database)")
	flag.Parse()

	// Logs go to stderr; stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var ds mcp.DataSource
	if *remoteURL != "" {
		ds = mcp.NewHTTPClient(*remoteURL, cfg.Auth.APIKey, cfg.Auth.DoctorToken)
		log.Info("using remote data source", "url", *remoteURL)
	} else {
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("using local database")
	}

	s := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
