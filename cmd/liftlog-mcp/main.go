package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/measurements"
	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-mcp", Version)
		return
	}

	// Stdio transport owns stdout; log to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var store storage.Store
	if cfg.Database.Driver == "postgres" {
		store, err = storage.OpenPostgres(ctx, cfg.Database.DSN())
	} else {
		store, err = storage.OpenSQLite(cfg.Database.Dir)
	}
	if err != nil {
		log.Error("failed to open store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Error("failed to load exercise catalog", "error", err)
		os.Exit(1)
	}

	sessions := session.NewEngine(store, cat, log)
	if err := sessions.Load(ctx); err != nil {
		log.Error("failed to load session state", "error", err)
		os.Exit(1)
	}
	schedules := schedule.NewEngine(store, sessions, sessions, log)
	if err := schedules.Load(ctx); err != nil {
		log.Error("failed to load schedule state", "error", err)
		os.Exit(1)
	}
	keeper := measurements.NewKeeper(store, log)
	if err := keeper.Load(ctx); err != nil {
		log.Error("failed to load measurements", "error", err)
		os.Exit(1)
	}

	srv := mcp.New(sessions, schedules, keeper, cat, Version, log)
	if err := server.ServeStdio(srv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
