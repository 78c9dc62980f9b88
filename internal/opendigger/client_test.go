package opendigger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// metricsServer serves canned OpenDigger payloads for one repository.
func metricsServer(t *testing.T, failures int) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var requests atomic.Int64
	hours := make([]float64, 30*24)
	for day := 0; day < 12; day++ {
		hours[day*24] = 1
	}

	// Month keys track the clock so the recent-months cache filter never
	// drops them.
	cur := time.Now().Format("2006-01")
	prev := time.Now().AddDate(0, -1, 0).Format("2006-01")

	payloads := map[string]any{
		"/github/acme/svc/active_dates_and_times.json": map[string]any{cur: hours},
		"/github/acme/svc/openrank.json":               map[string]any{prev: 50.0, cur: 72.5},
		"/github/acme/svc/issues_new.json":             map[string]any{cur: 8.0},
	}

	var served atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if served.Add(1) <= int64(failures) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		payload, ok := payloads[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestClient(t *testing.T, baseURL string, cacheDir string) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:  baseURL,
		CacheDir: cacheDir,
		Backoff:  time.Millisecond,
	})
}

func TestFetchAggregatesMetrics(t *testing.T) {
	srv, _ := metricsServer(t, 0)
	client := newTestClient(t, srv.URL, "")

	got, err := client.Fetch(context.Background(), "acme/svc")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if got.ActiveDaysLast30 != 12 {
		t.Errorf("active days = %d, want 12", got.ActiveDaysLast30)
	}
	if got.IssuesNewLast30 != 8 {
		t.Errorf("issues new = %d, want 8", got.IssuesNewLast30)
	}
	if got.OpenRank != 72.5 {
		t.Errorf("openrank = %v, want latest month 72.5", got.OpenRank)
	}
	if got.FullName != "acme/svc" || got.Name != "svc" {
		t.Errorf("names = %q / %q", got.FullName, got.Name)
	}
}

func TestFetchNotFound(t *testing.T) {
	srv, reqs := metricsServer(t, 0)
	client := newTestClient(t, srv.URL, "")

	_, err := client.Fetch(context.Background(), "acme/unknown")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var nf interface{ NotFound() bool }
	if !errors.As(err, &nf) || !nf.NotFound() {
		t.Error("not-found error must be detectable through the NotFound interface")
	}

	// 404 must not be retried.
	if reqs.Load() != 1 {
		t.Errorf("requests = %d, want 1 (no retries on 404)", reqs.Load())
	}
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	srv, _ := metricsServer(t, 2)
	client := newTestClient(t, srv.URL, "")

	if _, err := client.Fetch(context.Background(), "acme/svc"); err != nil {
		t.Fatalf("fetch after transient failures: %v", err)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	client := newTestClient(t, srv.URL, "")

	_, err := client.Fetch(context.Background(), "acme/svc")
	if err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("server errors must not be classified as not-found")
	}
}

func TestFetchUsesFileCache(t *testing.T) {
	srv, reqs := metricsServer(t, 0)
	cacheDir := t.TempDir()
	client := newTestClient(t, srv.URL, cacheDir)

	if _, err := client.Fetch(context.Background(), "acme/svc"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	first := reqs.Load()

	if !client.IsCached("acme/svc") {
		t.Error("expected all metrics cached after first fetch")
	}

	if _, err := client.Fetch(context.Background(), "acme/svc"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if reqs.Load() != first {
		t.Errorf("second fetch hit the network: %d -> %d requests", first, reqs.Load())
	}
}

func TestClearCache(t *testing.T) {
	srv, _ := metricsServer(t, 0)
	cacheDir := t.TempDir()
	client := newTestClient(t, srv.URL, cacheDir)

	if _, err := client.Fetch(context.Background(), "acme/svc"); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	info, err := client.CacheInfo()
	if err != nil {
		t.Fatalf("cache info: %v", err)
	}
	if info.TotalRepos != 1 || info.TotalFiles != 3 {
		t.Errorf("cache info = %+v, want 1 repo / 3 files", info)
	}

	removed, err := client.ClearCache("acme/svc")
	if err != nil {
		t.Fatalf("clear cache: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if client.IsCached("acme/svc") {
		t.Error("cache should be empty after clear")
	}
}

func TestFetchInvalidRepoID(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid", "")
	if _, err := client.Fetch(context.Background(), "not-a-repo"); err == nil {
		t.Error("expected an error for malformed repo id")
	}
}
