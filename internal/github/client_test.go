package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jzhao-dev/reposcout/internal/models"
)

func item(owner, name string, topics []string, stars int) map[string]any {
	return map[string]any{
		"name":             name,
		"description":      name + " description",
		"stargazers_count": stars,
		"pushed_at":        "2026-08-01T00:00:00Z",
		"topics":           topics,
		"owner":            map[string]any{"login": owner},
	}
}

// searchServer pages through the given items honoring per_page/page.
func searchServer(t *testing.T, items []map[string]any) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		queries = append(queries, r.URL.Query().Get("q"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

		start := (page - 1) * perPage
		end := start + perPage
		if start > len(items) {
			start = len(items)
		}
		if end > len(items) {
			end = len(items)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count": len(items),
			"items":       items[start:end],
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func TestSearchFiltersReposWithoutTopics(t *testing.T) {
	srv, _ := searchServer(t, []map[string]any{
		item("acme", "topical", []string{"go", "cli"}, 50),
		item("acme", "bare", nil, 500),
		item("acme", "tagged", []string{"python"}, 10),
	})
	client := NewClient(Config{BaseURL: srv.URL, Token: "t"})

	got, err := client.Search(context.Background(), []string{"go"}, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2 (topic-less repos dropped)", len(got))
	}
	if got[0].RepoID != "acme/topical" || got[1].RepoID != "acme/tagged" {
		t.Errorf("unexpected candidates: %+v", got)
	}
	if got[0].Stars != 50 || got[0].Description == "" || got[0].LastUpdated == "" {
		t.Errorf("candidate metadata not mapped: %+v", got[0])
	}
}

func TestSearchQueryShape(t *testing.T) {
	srv, queries := searchServer(t, nil)
	client := NewClient(Config{BaseURL: srv.URL, Token: "t"})

	_, err := client.Search(context.Background(), []string{"machine learning", "go"}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(*queries) == 0 {
		t.Fatal("no request made")
	}
	q := (*queries)[0]
	if !strings.HasPrefix(q, `"machine learning" OR go `) {
		t.Errorf("keywords not OR-joined with quoting: %q", q)
	}
	if !strings.Contains(q, "pushed:>") || !strings.Contains(q, "created:<") {
		t.Errorf("date qualifiers missing: %q", q)
	}

	pushed := time.Now().AddDate(0, 0, -365).Format("2006-01-02")
	if !strings.Contains(q, "pushed:>"+pushed) {
		t.Errorf("pushed qualifier not one year ago: %q", q)
	}
}

func TestSearchPagesUntilTarget(t *testing.T) {
	// 20 repos with topics: needs two pages of 15 to satisfy target 18.
	var items []map[string]any
	for i := 0; i < 20; i++ {
		items = append(items, item("acme", fmt.Sprintf("repo-%02d", i), []string{"go"}, i))
	}
	srv, queries := searchServer(t, items)
	client := NewClient(Config{BaseURL: srv.URL, Token: "t"})

	got, err := client.Search(context.Background(), []string{"go"}, 18)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 18 {
		t.Errorf("got %d candidates, want 18", len(got))
	}
	if len(*queries) != 2 {
		t.Errorf("made %d requests, want 2 pages", len(*queries))
	}
}

func TestSearchUnauthenticatedLimit(t *testing.T) {
	var items []map[string]any
	for i := 0; i < 60; i++ {
		items = append(items, item("acme", fmt.Sprintf("repo-%02d", i), []string{"go"}, i))
	}
	srv, _ := searchServer(t, items)
	client := NewClient(Config{BaseURL: srv.URL}) // no token

	got, err := client.Search(context.Background(), []string{"go"}, 60)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != unauthenticatedLimit {
		t.Errorf("got %d candidates, want the unauthenticated cap %d", len(got), unauthenticatedLimit)
	}
}

func TestSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL, Token: "t"})

	if _, err := client.Search(context.Background(), []string{"go"}, 3); err == nil {
		t.Error("expected rate-limit error")
	}
}

func TestSearchNoKeywords(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused.invalid"})
	if _, err := client.Search(context.Background(), nil, 3); err == nil {
		t.Error("expected error for empty keywords")
	}
}

func TestRepoCacheRoundTrip(t *testing.T) {
	srv, _ := searchServer(t, []map[string]any{
		item("acme", "svc", []string{"go"}, 7),
	})
	cacheDir := t.TempDir()
	client := NewClient(Config{BaseURL: srv.URL, Token: "t", CacheDir: cacheDir})

	if _, err := client.Search(context.Background(), []string{"go"}, 1); err != nil {
		t.Fatalf("search: %v", err)
	}

	cached, ok := client.CachedRepo("acme/svc")
	if !ok {
		t.Fatal("expected repo cached after search")
	}
	if cached.Stars != 7 || len(cached.Keywords) == 0 {
		t.Errorf("cached candidate incomplete: %+v", cached)
	}

	info, err := client.CacheInfo()
	if err != nil {
		t.Fatalf("cache info: %v", err)
	}
	if info.TotalRepos != 1 {
		t.Errorf("cache info repos = %d, want 1", info.TotalRepos)
	}

	removed, err := client.ClearCache("")
	if err != nil {
		t.Fatalf("clear cache: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := client.CachedRepo("acme/svc"); ok {
		t.Error("cache entry survived clear")
	}
}

func TestCachedRepoExpires(t *testing.T) {
	cacheDir := t.TempDir()
	client := NewClient(Config{BaseURL: "http://unused.invalid", CacheDir: cacheDir})

	client.writeCache(models.CandidateRepo{RepoID: "acme/old", Keywords: []string{"go"}})
	if _, ok := client.CachedRepo("acme/old"); !ok {
		t.Fatal("fresh cache entry not served")
	}

	client.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	if _, ok := client.CachedRepo("acme/old"); ok {
		t.Error("expired cache entry served")
	}
}
