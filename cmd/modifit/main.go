package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	modifit "github.com/modifit/platform"
	"github.com/modifit/platform/internal/ai"
	"github.com/modifit/platform/internal/auth"
	"github.com/modifit/platform/internal/config"
	"github.com/modifit/platform/internal/events"
	"github.com/modifit/platform/internal/mcp"
	"github.com/modifit/platform/internal/server"
	"github.com/modifit/platform/internal/service"
	"github.com/modifit/platform/internal/storage"
	"github.com/modifit/platform/internal/storage/sqlite"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// store is the persistence backend selected by database.driver.
type store interface {
	service.Store
	Close()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)
	log.Info("Modifit starting", "version", Version, "driver", cfg.Database.Driver)

	if err := migrate(cfg.Database); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()
	db, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	publisher := events.Publisher(events.NopPublisher{})
	if cfg.RabbitMQ.URL != "" {
		p, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Error("failed to connect rabbitmq", "error", err)
			os.Exit(1)
		}
		defer p.Close()
		publisher = p
		log.Info("rabbitmq connected", "exchange", cfg.RabbitMQ.Exchange)
	}

	completer := ai.NewClient(ai.Config{
		URL:         cfg.AI.URL,
		Token:       cfg.AI.Token,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout,
	}, log)
	log.Info("ai client configured", "model", completer.Model())

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	log.Info("auth configured", "access_ttl", jwt.AccessTTL(), "refresh_ttl", cfg.Auth.RefreshTokenTTL)
	authSvc := service.NewAuthService(log, db, db, jwt, cfg.Auth.RefreshTokenTTL, cfg.Auth.BcryptCost)
	fitness := service.NewFitnessService(log, db)
	routines := service.NewRoutineGenerator(log, db, completer, publisher)

	srv := server.New(authSvc, fitness, routines, db, log)
	srv.SetMCP(mcp.NewHTTPHandler(mcp.New(&mcp.Local{Fitness: fitness, Routines: routines}, Version, log)))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
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
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func migrate(db config.DatabaseConfig) error {
	if db.Driver == config.DriverSQLite {
		return sqlite.RunMigrations(db.Path, modifit.MigrationsFS)
	}
	return storage.RunMigrations(db.DSN(), modifit.MigrationsFS)
}

func openStore(ctx context.Context, db config.DatabaseConfig) (store, error) {
	if db.Driver == config.DriverSQLite {
		return sqlite.Open(db.Path)
	}
	return storage.New(ctx, db.DSN())
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
