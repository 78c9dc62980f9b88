// Package main provides the entry point for the reposcout MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jzhao-dev/reposcout/internal/config"
	"github.com/jzhao-dev/reposcout/internal/db"
	"github.com/jzhao-dev/reposcout/internal/github"
	"github.com/jzhao-dev/reposcout/internal/llm"
	"github.com/jzhao-dev/reposcout/internal/match"
	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/jzhao-dev/reposcout/internal/opendigger"
	"github.com/jzhao-dev/reposcout/internal/profile"
	"github.com/jzhao-dev/reposcout/internal/search"
	"github.com/jzhao-dev/reposcout/internal/server"
	"github.com/jzhao-dev/reposcout/internal/tools"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("reposcout-mcp starting",
		"version", version,
		"surrealdb_url", cfg.SurrealDBURL,
		"llm_provider", cfg.LLMProvider,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	stats := metrics.NewCollector()

	// Connect to database
	dbCfg := db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
		Stats:     stats,
	}

	dbClient, err := db.NewClient(ctx, dbCfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing database connection")
		_ = dbClient.Close(ctx)
	}()

	// Initialize database schema
	if err := dbClient.InitSchema(ctx); err != nil {
		logger.Error("failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	// Search collaborators
	ghClient := github.NewClient(github.Config{
		Token:    cfg.GitHubToken,
		BaseURL:  cfg.GitHubAPIURL,
		CacheDir: cfg.CacheDir,
		Logger:   logger,
		Stats:    stats,
	})
	odClient := opendigger.NewClient(opendigger.Config{
		BaseURL:  cfg.OpenDiggerBaseURL,
		CacheDir: cfg.CacheDir,
		Logger:   logger,
		Stats:    stats,
	})

	// Match scoring, with optional YAML override
	matchCfg := match.DefaultConfig()
	if cfg.MatchConfigFile != "" {
		matchCfg, err = match.LoadConfig(cfg.MatchConfigFile)
		if err != nil {
			logger.Error("failed to load match config", "error", err, "file", cfg.MatchConfigFile)
			os.Exit(1)
		}
	}
	scorer := match.NewScorer(matchCfg, logger)

	coordinator := search.NewCoordinator(search.Deps{
		Searcher: ghClient,
		Fetcher:  odClient,
		Scorer:   scorer,
		Profiles: dbClient,
		Logger:   logger,
		Stats:    stats,
	})

	// LLM profile extraction. A missing provider disables build_profile
	// but leaves search and recommendation working.
	var builder tools.ProfileBuilder
	if model, err := llm.NewModel(cfg); err != nil {
		logger.Warn("LLM unavailable, build_profile disabled", "error", err)
	} else {
		builder = profile.NewBuilder(model, logger, stats)
		logger.Info("LLM initialized", "provider", cfg.LLMProvider, "model", model.Model())
	}

	// Create and setup server
	srv := server.New(version, logger, stats)
	srv.Setup()

	// Register tools
	deps := &tools.Dependencies{
		Coordinator: coordinator,
		Builder:     builder,
		Store:       dbClient,
		Repos:       ghClient,
		Fetcher:     odClient,
		Scorer:      scorer,
		Stats:       stats,
		Logger:      logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)

	// Log ready state
	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
