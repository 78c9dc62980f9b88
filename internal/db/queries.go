// Package db provides SurrealDB query functions for profiles and search
// session history.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// profileRow is the stored shape of a profile. Record IDs come back
// through record::id() as plain strings.
type profileRow struct {
	ID                string   `json:"id"`
	Skills            []string `json:"skills"`
	ContributionStyle string   `json:"contribution_style"`
	ExperienceLevel   string   `json:"experience_level"`
}

func (r profileRow) toProfile() models.UserProfile {
	p := models.NewUserProfile(
		r.Skills,
		models.ParseContributionStyle(r.ContributionStyle),
		models.ParseExperienceLevel(r.ExperienceLevel),
	)
	p.ID = r.ID
	return p
}

const profileFields = `record::id(id) AS id, skills, contribution_style, experience_level`

// SaveProfile stores a profile with its source text and returns the new
// record id. Implements part of profile.Store.
func (c *Client) SaveProfile(ctx context.Context, p models.UserProfile, sourceText string) (string, error) {
	defer c.track()()

	id := uuid.NewString()

	err := retryOnConflict(func() error {
		_, err := surrealdb.Query[any](ctx, c.db, `
			CREATE type::record("profile", $id) CONTENT {
				skills: $skills,
				contribution_style: $style,
				experience_level: $level,
				source_text: $source
			}
		`, map[string]any{
			"id":     id,
			"skills": p.Skills,
			"style":  string(p.ContributionStyle),
			"level":  string(p.ExperienceLevel),
			"source": sourceText,
		})
		return wrapQueryError(err)
	})
	if err != nil {
		return "", fmt.Errorf("save profile: %w", err)
	}
	return id, nil
}

// LoadLatest returns the most recently created profile, or nil when none
// exists. Implements search.ProfileSource.
func (c *Client) LoadLatest(ctx context.Context) (*models.UserProfile, error) {
	defer c.track()()

	results, err := surrealdb.Query[[]profileRow](ctx, c.db, fmt.Sprintf(`
		SELECT %s FROM profile ORDER BY created DESC LIMIT 1
	`, profileFields), nil)
	if err != nil {
		return nil, fmt.Errorf("load latest profile: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	p := (*results)[0].Result[0].toProfile()
	return &p, nil
}

// LoadByID returns the profile with the given id, or ErrNotFound.
func (c *Client) LoadByID(ctx context.Context, id string) (*models.UserProfile, error) {
	defer c.track()()

	results, err := surrealdb.Query[[]profileRow](ctx, c.db, fmt.Sprintf(`
		SELECT %s FROM type::record("profile", $id)
	`, profileFields), map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	p := (*results)[0].Result[0].toProfile()
	return &p, nil
}

// ListProfiles returns all profiles, newest first.
func (c *Client) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	defer c.track()()

	results, err := surrealdb.Query[[]profileRow](ctx, c.db, fmt.Sprintf(`
		SELECT %s FROM profile ORDER BY created DESC
	`, profileFields), nil)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.UserProfile{}, nil
	}
	rows := (*results)[0].Result
	out := make([]models.UserProfile, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toProfile())
	}
	return out, nil
}

// SessionResult is one ranked repository inside a stored session.
type SessionResult struct {
	RepoID     string   `json:"repo_id"`
	MatchScore *float64 `json:"match_score,omitempty"`
	Stars      int      `json:"stars"`
}

// Session is a stored search session.
type Session struct {
	ID           string          `json:"id"`
	Keywords     []string        `json:"keywords"`
	TargetCount  int             `json:"target_count"`
	IsSufficient bool            `json:"is_sufficient"`
	Message      string          `json:"message"`
	ReposChecked int             `json:"repos_checked"`
	ValidCount   int             `json:"valid_count"`
	SkippedCount int             `json:"skipped_count"`
	RoundsRun    int             `json:"rounds_run"`
	Results      []SessionResult `json:"results"`
	Created      time.Time       `json:"created"`
}

// SaveSession records a finished search for the history surface and
// returns the new record id.
func (c *Client) SaveSession(ctx context.Context, res models.IntegratedSearchResult) (string, error) {
	defer c.track()()

	id := uuid.NewString()

	results := make([]SessionResult, 0, len(res.Repositories))
	for _, repo := range res.Repositories {
		results = append(results, SessionResult{
			RepoID:     repo.RepoID,
			MatchScore: repo.MatchScore,
			Stars:      repo.Stars,
		})
	}

	err := retryOnConflict(func() error {
		_, err := surrealdb.Query[any](ctx, c.db, `
			CREATE type::record("search_session", $id) CONTENT {
				keywords: $keywords,
				target_count: $target,
				is_sufficient: $sufficient,
				message: $message,
				repos_checked: $checked,
				valid_count: $valid,
				skipped_count: $skipped,
				rounds_run: $rounds,
				results: $results
			}
		`, map[string]any{
			"id":         id,
			"keywords":   res.SearchKeywords,
			"target":     res.TargetCount,
			"sufficient": res.IsSufficient,
			"message":    res.Message,
			"checked":    res.ReposChecked,
			"valid":      res.ValidCount,
			"skipped":    res.SkippedCount,
			"rounds":     res.RoundsRun,
			"results":    results,
		})
		return wrapQueryError(err)
	})
	if err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return id, nil
}

// RecentSessions returns the most recent search sessions, newest first.
func (c *Client) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	defer c.track()()

	if limit <= 0 {
		limit = 10
	}

	results, err := surrealdb.Query[[]Session](ctx, c.db, `
		SELECT record::id(id) AS id, keywords, target_count, is_sufficient,
		       message, repos_checked, valid_count, skipped_count, rounds_run,
		       results, created
		FROM search_session ORDER BY created DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []Session{}, nil
	}
	return (*results)[0].Result, nil
}
