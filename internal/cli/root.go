// Package cli provides the command-line interface for reposcout.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jzhao-dev/reposcout/internal/config"
	"github.com/jzhao-dev/reposcout/internal/db"
	"github.com/jzhao-dev/reposcout/internal/github"
	"github.com/jzhao-dev/reposcout/internal/llm"
	"github.com/jzhao-dev/reposcout/internal/match"
	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/jzhao-dev/reposcout/internal/opendigger"
	"github.com/jzhao-dev/reposcout/internal/profile"
	"github.com/jzhao-dev/reposcout/internal/search"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logging, and db client
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
	stats    *metrics.Collector
	dbClient *db.Client

	// Lazy-initialized LLM model
	model *llm.Model
)

// Commands that work without a database connection.
var noDBCommands = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
	"info":       true,
	"clear":      true,
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reposcout",
	Short: "Profile-driven open-source repository recommender",
	Long: `Reposcout finds open-source repositories worth contributing to.

It searches GitHub by keywords or skill profile, qualifies every candidate
through OpenDigger activity metrics, and ranks the survivors by how well
they match your skills, contribution style, and experience level.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, closeLog = config.SetupLogger(cfg.LogFile, level)
		stats = metrics.NewCollector()

		if noDBCommands[cmd.Name()] {
			return nil
		}

		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
			Stats:     stats,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if closeLog != nil {
			_ = closeLog()
		}
	},
}

// newGitHubClient builds the GitHub search client from global config.
func newGitHubClient() *github.Client {
	return github.NewClient(github.Config{
		Token:    cfg.GitHubToken,
		BaseURL:  cfg.GitHubAPIURL,
		CacheDir: cfg.CacheDir,
		Logger:   logger,
		Stats:    stats,
	})
}

// newOpenDiggerClient builds the metrics client from global config.
func newOpenDiggerClient() *opendigger.Client {
	return opendigger.NewClient(opendigger.Config{
		BaseURL:  cfg.OpenDiggerBaseURL,
		CacheDir: cfg.CacheDir,
		Logger:   logger,
		Stats:    stats,
	})
}

// scoringConfig resolves scorer parameters: an explicit preset wins, then
// a YAML override file, then the profile's own style and level.
func scoringConfig(preset, configFile string, p *models.UserProfile) (match.Config, error) {
	if preset != "" {
		return match.PresetConfig(preset)
	}
	if configFile != "" {
		mc, err := match.LoadConfig(configFile)
		if err != nil {
			return match.Config{}, fmt.Errorf("load match config: %w", err)
		}
		return mc, nil
	}
	if p != nil {
		return match.ConfigForProfile(string(p.ExperienceLevel), string(p.ContributionStyle)), nil
	}
	return match.DefaultConfig(), nil
}

// newScorer builds the match scorer from global config, optionally tuned
// to a profile.
func newScorer(preset string, p *models.UserProfile) (*match.Scorer, error) {
	mc, err := scoringConfig(preset, cfg.MatchConfigFile, p)
	if err != nil {
		return nil, err
	}
	return match.NewScorer(mc, logger), nil
}

// newCoordinator wires the search coordinator with live collaborators.
func newCoordinator(scorer *match.Scorer, onProgress func(search.Event)) *search.Coordinator {
	return search.NewCoordinator(search.Deps{
		Searcher:   newGitHubClient(),
		Fetcher:    newOpenDiggerClient(),
		Scorer:     scorer,
		Profiles:   dbClient,
		Logger:     logger,
		Stats:      stats,
		OnProgress: onProgress,
	})
}

// getBuilder creates the profile builder with lazy LLM initialization.
func getBuilder() (*profile.Builder, error) {
	if model == nil {
		var err error
		model, err = llm.NewModel(cfg)
		if err != nil {
			return nil, fmt.Errorf("init model: %w", err)
		}
	}
	return profile.NewBuilder(model, logger, stats), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(repoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(statsCmd)
}
