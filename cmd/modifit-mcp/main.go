// Command modifit-mcp serves the Modifit MCP tools over stdio, reading data
// from a running Modifit server through its REST API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/modifit/platform/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("url", envOr("MODIFIT_URL", "http://localhost:8080"), "Modifit server base URL")
	token := flag.String("token", os.Getenv("MODIFIT_TOKEN"), "access token (default $MODIFIT_TOKEN)")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *token == "" {
		fmt.Fprintf(os.Stderr, "Usage: modifit-mcp -url https://modifit.example.com -token <access token>\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(mcp.NewHTTPClient(*baseURL, *token), Version, log)
	log.Info("modifit-mcp starting", "version", Version, "url", *baseURL)

	if err := server.ServeStdio(s, server.WithErrorLogger(slog.NewLogLogger(log.Handler(), slog.LevelError))); err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
