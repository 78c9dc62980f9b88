// Package tools provides MCP tool handlers and registration.
package tools

import (
	"context"
	"log/slog"

	"github.com/jzhao-dev/reposcout/internal/db"
	"github.com/jzhao-dev/reposcout/internal/match"
	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/jzhao-dev/reposcout/internal/search"
)

// ProfileBuilder extracts a structured profile from free text.
// Satisfied by profile.Builder.
type ProfileBuilder interface {
	BuildFromText(ctx context.Context, text string) (models.UserProfile, error)
}

// Store persists profiles and search sessions. Satisfied by db.Client.
// Handlers tolerate a nil Store; persistence is then skipped.
type Store interface {
	SaveProfile(ctx context.Context, p models.UserProfile, sourceText string) (string, error)
	LoadLatest(ctx context.Context) (*models.UserProfile, error)
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
	SaveSession(ctx context.Context, res models.IntegratedSearchResult) (string, error)
	RecentSessions(ctx context.Context, limit int) ([]db.Session, error)
}

// RepoSource looks up previously fetched repository details.
// Satisfied by github.Client.
type RepoSource interface {
	CachedRepo(repoID string) (models.CandidateRepo, bool)
}

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Coordinator *search.Coordinator
	Builder     ProfileBuilder
	Store       Store
	Repos       RepoSource
	Fetcher     search.MetricsFetcher
	Scorer      *match.Scorer
	Stats       *metrics.Collector
	Logger      *slog.Logger
}
