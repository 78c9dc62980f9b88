package models

import (
	"fmt"
	"regexp"
	"strings"
)

// keywordCleaner strips anything that is not a letter, digit, hyphen, or
// underscore. GitHub topics already follow this shape; descriptions and
// free-text keyword sources do not.
var keywordCleaner = regexp.MustCompile(`[^a-z0-9\-_]`)

// NormalizeKeyword lowercases, trims, and strips special characters from a
// repository keyword.
func NormalizeKeyword(k string) string {
	return keywordCleaner.ReplaceAllString(strings.ToLower(strings.TrimSpace(k)), "")
}

// NormalizeKeywords normalizes a keyword list, dropping entries that become
// empty and collapsing duplicates while preserving order.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		n := NormalizeKeyword(k)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// CandidateRepo is one hit from the repository search collaborator.
type CandidateRepo struct {
	RepoID      string   `json:"repo_id"` // "owner/repo"
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
	Stars       int      `json:"stars"`
	LastUpdated string   `json:"last_updated"` // ISO8601
}

// Valid reports whether the candidate carries the identity fields the
// coordinator requires. Candidates failing this are dropped with a skip
// counter rather than a hard failure.
func (c CandidateRepo) Valid() bool {
	parts := strings.Split(c.RepoID, "/")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}

// RepoMetrics holds the activity metrics for one repository, aggregated
// from the metrics collaborator. Keywords are normalized at construction;
// the value is never mutated by the core.
type RepoMetrics struct {
	Keywords         []string `json:"keywords"`
	ActiveDaysLast30 int      `json:"active_days_last_30"`
	IssuesNewLast30  int      `json:"issues_new_last_30"`
	OpenRank         float64  `json:"openrank"`
	Name             string   `json:"name,omitempty"`
	FullName         string   `json:"full_name,omitempty"`
}

// NewRepoMetrics builds a RepoMetrics value with normalized keywords and
// non-negative counters. Absent metrics default to zero.
func NewRepoMetrics(keywords []string, activeDays, issuesNew int, openrank float64, fullName string) RepoMetrics {
	if activeDays < 0 {
		activeDays = 0
	}
	if issuesNew < 0 {
		issuesNew = 0
	}
	if openrank < 0 {
		openrank = 0
	}
	name := fullName
	if idx := strings.LastIndex(fullName, "/"); idx >= 0 {
		name = fullName[idx+1:]
	}
	return RepoMetrics{
		Keywords:         NormalizeKeywords(keywords),
		ActiveDaysLast30: activeDays,
		IssuesNewLast30:  issuesNew,
		OpenRank:         openrank,
		Name:             name,
		FullName:         fullName,
	}
}

// RepoMetricsFromMap builds RepoMetrics from a loosely-typed mapping, the
// boundary shape used by cached JSON blobs.
func RepoMetricsFromMap(data map[string]any) (RepoMetrics, error) {
	if data == nil {
		return RepoMetrics{}, fmt.Errorf("repo data is nil")
	}
	keywords, err := stringSlice(data["keywords"])
	if err != nil {
		return RepoMetrics{}, fmt.Errorf("repo keywords: %w", err)
	}
	fullName, _ := data["full_name"].(string)
	return NewRepoMetrics(
		keywords,
		intValue(data["active_days_last_30"]),
		intValue(data["issues_new_last_30"]),
		floatValue(data["openrank"]),
		fullName,
	), nil
}

// KeywordSet returns the keywords as a set for overlap computations.
func (r RepoMetrics) KeywordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Keywords))
	for _, k := range r.Keywords {
		set[k] = struct{}{}
	}
	return set
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func floatValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
