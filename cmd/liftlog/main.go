package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/measurements"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/server"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("LiftLog starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	var migrationURL, migrationsDir string
	if cfg.Database.Driver == "postgres" {
		migrationURL = cfg.Database.DSN()
		migrationsDir = "migrations/postgres"
	} else {
		if err := os.MkdirAll(cfg.Database.Dir, 0o755); err != nil {
			log.Error("failed to create data dir", "dir", cfg.Database.Dir, "error", err)
			os.Exit(1)
		}
		migrationURL = "sqlite://" + filepath.Join(cfg.Database.Dir, "liftlog.db")
		migrationsDir = "migrations/sqlite"
	}
	if err := storage.RunMigrations(migrationURL, migrationsDir); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "driver", cfg.Database.Driver)

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Open store
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
	log.Info("store opened", "driver", cfg.Database.Driver)

	// Exercise catalog: built-in defaults, optionally overlaid from YAML
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Error("failed to load exercise catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}

	// Engines
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

	// Background reconciliation and due-notification poll
	runnerCtx, stopRunner := context.WithCancel(ctx)
	defer stopRunner()
	runner := schedule.NewRunner(schedules, schedule.LogNotifier{Log: log}, cfg.Schedule.PollInterval(), log)
	go runner.Run(runnerCtx)

	// Create server
	srv := server.New(sessions, schedules, keeper, cat, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)
	stopRunner()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
