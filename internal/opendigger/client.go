// Package opendigger fetches repository activity metrics from the
// OpenDigger OSS data endpoint and aggregates them into models.RepoMetrics.
package opendigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/jzhao-dev/reposcout/internal/models"
)

// ErrNotFound marks repositories OpenDigger has no data for. It is an
// expected condition, not a transient failure, and is never retried.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string  { return "opendigger: no data for repository" }
func (notFoundError) NotFound() bool { return true }

// Metric names fetched per repository.
const (
	metricActiveDates = "active_dates_and_times"
	metricOpenRank    = "openrank"
	metricIssuesNew   = "issues_new"
)

// activeDatesKeepMonths bounds how much of the activity history is kept
// when caching; older entries never feed the score.
const activeDatesKeepMonths = 6

// Config holds client settings. Zero values get sensible defaults.
type Config struct {
	BaseURL    string        // default https://oss.open-digger.cn
	CacheDir   string        // empty disables the file cache
	MaxRetries int           // retries after the first attempt, default 3
	Backoff    time.Duration // base backoff, doubled per attempt, default 1s
	Timeout    time.Duration // per-request timeout, default 30s
	Logger     *slog.Logger
	Stats      *metrics.Collector
}

// Client fetches and caches OpenDigger metrics. It implements
// search.MetricsFetcher.
type Client struct {
	baseURL    string
	cacheDir   string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	stats      *metrics.Collector
	now        func() time.Time
}

// NewClient creates an OpenDigger client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://oss.open-digger.cn"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cacheDir:   cfg.CacheDir,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
		stats:      cfg.Stats,
		now:        time.Now,
	}
}

// Fetch retrieves the three activity metrics for repoID and aggregates them
// into a RepoMetrics value. A repository unknown to OpenDigger yields an
// error satisfying errors.Is(err, ErrNotFound).
func (c *Client) Fetch(ctx context.Context, repoID string) (models.RepoMetrics, error) {
	if err := validateRepoID(repoID); err != nil {
		return models.RepoMetrics{}, err
	}

	if c.stats != nil {
		defer c.stats.Time(metrics.OpMetricsFetch)()
	}

	activeDates, err := c.fetchMetric(ctx, repoID, metricActiveDates)
	if err != nil {
		return models.RepoMetrics{}, fmt.Errorf("fetch %s for %s: %w", metricActiveDates, repoID, err)
	}
	openrank, err := c.fetchMetric(ctx, repoID, metricOpenRank)
	if err != nil {
		return models.RepoMetrics{}, fmt.Errorf("fetch %s for %s: %w", metricOpenRank, repoID, err)
	}
	issuesNew, err := c.fetchMetric(ctx, repoID, metricIssuesNew)
	if err != nil {
		return models.RepoMetrics{}, fmt.Errorf("fetch %s for %s: %w", metricIssuesNew, repoID, err)
	}

	rank, _ := latestMonthValue(openrank)
	issues, _ := latestMonthValue(issuesNew)
	days := activeDaysLast30(activeDates)

	return models.NewRepoMetrics(nil, days, int(issues), rank, repoID), nil
}

// fetchMetric returns the raw month-keyed JSON object for one metric,
// serving from the file cache when possible.
func (c *Client) fetchMetric(ctx context.Context, repoID, metric string) (map[string]json.RawMessage, error) {
	if data, ok := c.readCache(repoID, metric); ok {
		if c.stats != nil {
			c.stats.Add(metrics.CounterCacheHit, 1)
		}
		return data, nil
	}
	if c.stats != nil {
		c.stats.Add(metrics.CounterCacheMiss, 1)
	}

	url := fmt.Sprintf("%s/github/%s/%s.json", c.baseURL, repoID, metric)

	body, err := c.getWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", metric, err)
	}

	if metric == metricActiveDates {
		data = filterRecentMonths(data, activeDatesKeepMonths, c.now())
	}

	c.writeCache(repoID, metric, data)
	return data, nil
}

// getWithRetry performs a GET with exponential backoff. Timeouts,
// connection errors, 5xx, and 429 are retried; 404 maps to ErrNotFound
// immediately.
func (c *Client) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * (1 << (attempt - 1))
			c.logger.Debug("retrying opendigger request", "url", url, "attempt", attempt, "wait", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retryable, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("opendigger request failed after %d retries: %w", c.maxRetries, lastErr)
}

// getOnce performs a single GET. The second return value reports whether
// the failure is worth retrying.
func (c *Client) getOnce(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, true, fmt.Errorf("request timeout: %w", err)
		}
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("read response: %w", err)
		}
		return body, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("status %s", resp.Status)
	default:
		return nil, false, fmt.Errorf("status %s", resp.Status)
	}
}

func validateRepoID(repoID string) error {
	parts := strings.Split(repoID, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("repo id must be in the form owner/repo, got %q", repoID)
	}
	return nil
}

// Cache layout: <cacheDir>/opendigger/<owner>_<repo>/<metric>.json.
// No TTL; OpenDigger publishes monthly, so stale data is cleared explicitly.

func (c *Client) cachePath(repoID, metric string) string {
	safe := strings.ReplaceAll(repoID, "/", "_")
	return filepath.Join(c.cacheDir, "opendigger", safe, metric+".json")
}

func (c *Client) readCache(repoID, metric string) (map[string]json.RawMessage, bool) {
	if c.cacheDir == "" {
		return nil, false
	}
	path := c.cachePath(repoID, metric)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		// Corrupt cache file, drop it.
		_ = os.Remove(path)
		return nil, false
	}
	if metric == metricActiveDates {
		data = filterRecentMonths(data, activeDatesKeepMonths, c.now())
	}
	return data, true
}

func (c *Client) writeCache(repoID, metric string, data map[string]json.RawMessage) {
	if c.cacheDir == "" {
		return
	}
	path := c.cachePath(repoID, metric)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.logger.Warn("create cache dir failed", "path", path, "error", err)
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		c.logger.Warn("write cache failed", "path", path, "error", err)
	}
}

// IsCached reports whether all metrics for repoID are in the file cache.
func (c *Client) IsCached(repoID string) bool {
	for _, metric := range []string{metricActiveDates, metricOpenRank, metricIssuesNew} {
		if _, ok := c.readCache(repoID, metric); !ok {
			return false
		}
	}
	return true
}

// ClearCache removes cached metrics. With a repo id it clears only that
// repository; with an empty string it clears everything. Returns the
// number of files removed.
func (c *Client) ClearCache(repoID string) (int, error) {
	if c.cacheDir == "" {
		return 0, nil
	}
	root := filepath.Join(c.cacheDir, "opendigger")
	if repoID != "" {
		return removeJSONFiles(filepath.Join(root, strings.ReplaceAll(repoID, "/", "_")))
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	total := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := removeJSONFiles(filepath.Join(root, entry.Name()))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func removeJSONFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return count, err
		}
		count++
	}
	// Drop the directory if nothing is left.
	_ = os.Remove(dir)
	return count, nil
}

// CacheStats summarizes the metric file cache.
type CacheStats struct {
	Dir        string `json:"dir"`
	TotalRepos int    `json:"total_repos"`
	TotalFiles int    `json:"total_files"`
	TotalBytes int64  `json:"total_bytes"`
}

// CacheInfo reports cache statistics.
func (c *Client) CacheInfo() (CacheStats, error) {
	stats := CacheStats{Dir: filepath.Join(c.cacheDir, "opendigger")}
	if c.cacheDir == "" {
		return stats, nil
	}
	entries, err := os.ReadDir(stats.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(stats.Dir, entry.Name()))
		if err != nil {
			continue
		}
		counted := false
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			stats.TotalFiles++
			counted = true
			if info, err := f.Info(); err == nil {
				stats.TotalBytes += info.Size()
			}
		}
		if counted {
			stats.TotalRepos++
		}
	}
	return stats, nil
}
