// Package github implements repository search against the GitHub search
// API, filtered to repositories that carry topics.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/jzhao-dev/reposcout/internal/models"
)

// Search limits. Unauthenticated requests get a tighter result budget
// because the API rate-limits them hard.
const (
	defaultResultsLimit  = 100
	unauthenticatedLimit = 45
	defaultBatchSize     = 15
	cacheTTL             = 24 * time.Hour
	recentPushWindowDays = 365
	minRepoAgeDays       = 60
)

// Config holds client settings.
type Config struct {
	Token    string // optional, empty runs unauthenticated
	BaseURL  string // default https://api.github.com
	CacheDir string // empty disables the per-repo file cache
	Timeout  time.Duration
	Logger   *slog.Logger
	Stats    *metrics.Collector
}

// Client searches GitHub repositories. It implements search.Searcher.
type Client struct {
	token      string
	baseURL    string
	cacheDir   string
	limit      int
	batchSize  int
	httpClient *http.Client
	logger     *slog.Logger
	stats      *metrics.Collector
	now        func() time.Time
}

// NewClient creates a GitHub search client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	limit := defaultResultsLimit
	if cfg.Token == "" {
		limit = unauthenticatedLimit
	}
	return &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cacheDir:   cfg.CacheDir,
		limit:      limit,
		batchSize:  defaultBatchSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
		stats:      cfg.Stats,
		now:        time.Now,
	}
}

// searchItem is the subset of the search API response the client consumes.
type searchItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	PushedAt    string   `json:"pushed_at"`
	Topics      []string `json:"topics"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

// Search returns up to targetCount candidates matching the keywords,
// newest-updated first. Repositories without topics are dropped: topics
// are the keyword signal the scorer matches against. Pages are fetched
// lazily so the API quota is only spent when the topic filter keeps
// thinning the results.
func (c *Client) Search(ctx context.Context, keywords []string, targetCount int) ([]models.CandidateRepo, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("github search: no keywords")
	}
	if targetCount <= 0 {
		return nil, nil
	}

	if c.stats != nil {
		defer c.stats.Time(metrics.OpGitHubSearch)()
	}

	query := c.buildQuery(keywords)
	c.logger.Debug("github search", "query", query, "target", targetCount)

	var results []models.CandidateRepo
	fetched := 0
	for page := 1; len(results) < targetCount && fetched < c.limit; page++ {
		perPage := c.batchSize
		if remaining := c.limit - fetched; perPage > remaining {
			perPage = remaining
		}

		items, err := c.fetchPage(ctx, query, page, perPage)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		fetched += len(items)

		for _, item := range items {
			if len(item.Topics) == 0 {
				continue
			}
			cand := models.CandidateRepo{
				RepoID:      item.Owner.Login + "/" + item.Name,
				Keywords:    item.Topics,
				Description: item.Description,
				Stars:       item.Stars,
				LastUpdated: item.PushedAt,
			}
			results = append(results, cand)
			c.writeCache(cand)
			if len(results) >= targetCount {
				break
			}
		}
	}

	if len(results) > targetCount {
		results = results[:targetCount]
	}
	return results, nil
}

// buildQuery joins keywords with OR (quoting ones containing spaces) and
// restricts results to repositories pushed within the last year but
// created at least two months ago, so freshly spawned and abandoned repos
// both drop out.
func (c *Client) buildQuery(keywords []string) string {
	formatted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			formatted = append(formatted, `"`+kw+`"`)
		} else {
			formatted = append(formatted, kw)
		}
	}

	pushedAfter := c.now().AddDate(0, 0, -recentPushWindowDays).Format("2006-01-02")
	createdBefore := c.now().AddDate(0, 0, -minRepoAgeDays).Format("2006-01-02")

	return fmt.Sprintf("%s pushed:>%s created:<%s",
		strings.Join(formatted, " OR "), pushedAfter, createdBefore)
}

func (c *Client) fetchPage(ctx context.Context, query string, page, perPage int) ([]searchItem, error) {
	params := url.Values{
		"q":        {query},
		"sort":     {"updated"},
		"order":    {"desc"},
		"per_page": {fmt.Sprint(perPage)},
		"page":     {fmt.Sprint(page)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/repositories?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github search request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		if c.token != "" {
			return nil, fmt.Errorf("github search: invalid token")
		}
		return nil, fmt.Errorf("github search: authentication required")
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, fmt.Errorf("github search: rate limited (%s)", resp.Status)
	default:
		return nil, fmt.Errorf("github search: status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return parsed.Items, nil
}

// Per-repo file cache: <cacheDir>/github/<owner>/<repo>.json with a 24h
// TTL. The cache is a lookup aid for the repo and cache CLI commands, not
// a search shortcut: queries always hit the API.

type cachedRepo struct {
	models.CandidateRepo
	CachedAt string `json:"cached_at"`
}

func (c *Client) cachePath(repoID string) string {
	return filepath.Join(c.cacheDir, "github", filepath.FromSlash(repoID)+".json")
}

func (c *Client) writeCache(cand models.CandidateRepo) {
	if c.cacheDir == "" {
		return
	}
	path := c.cachePath(cand.RepoID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.logger.Warn("create cache dir failed", "path", path, "error", err)
		return
	}
	raw, err := json.Marshal(cachedRepo{CandidateRepo: cand, CachedAt: c.now().Format(time.RFC3339)})
	if err != nil {
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		c.logger.Warn("write cache failed", "path", path, "error", err)
	}
}

// CachedRepo returns the cached candidate for repoID, or false when the
// entry is absent or older than 24 hours.
func (c *Client) CachedRepo(repoID string) (models.CandidateRepo, bool) {
	if c.cacheDir == "" {
		return models.CandidateRepo{}, false
	}
	path := c.cachePath(repoID)
	info, err := os.Stat(path)
	if err != nil {
		return models.CandidateRepo{}, false
	}
	if c.now().Sub(info.ModTime()) > cacheTTL {
		_ = os.Remove(path)
		return models.CandidateRepo{}, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.CandidateRepo{}, false
	}
	var entry cachedRepo
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = os.Remove(path)
		return models.CandidateRepo{}, false
	}
	return entry.CandidateRepo, true
}

// ClearCache removes cached repositories. With a repo id it clears only
// that entry; with an empty string it clears everything. Returns the
// number of files removed.
func (c *Client) ClearCache(repoID string) (int, error) {
	if c.cacheDir == "" {
		return 0, nil
	}
	root := filepath.Join(c.cacheDir, "github")
	if repoID != "" {
		err := os.Remove(c.cachePath(repoID))
		if err != nil {
			if os.IsNotExist(err) {
				return 0, nil
			}
			return 0, err
		}
		return 1, nil
	}

	count := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// CacheStats summarizes the repo file cache.
type CacheStats struct {
	Dir        string `json:"dir"`
	TotalRepos int    `json:"total_repos"`
	TotalBytes int64  `json:"total_bytes"`
}

// CacheInfo reports cache statistics.
func (c *Client) CacheInfo() (CacheStats, error) {
	stats := CacheStats{Dir: filepath.Join(c.cacheDir, "github")}
	if c.cacheDir == "" {
		return stats, nil
	}
	err := filepath.WalkDir(stats.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		stats.TotalRepos++
		if info, err := d.Info(); err == nil {
			stats.TotalBytes += info.Size()
		}
		return nil
	})
	return stats, err
}
