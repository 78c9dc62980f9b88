package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jzhao-dev/reposcout/internal/search"
	"github.com/spf13/cobra"
)

var repoCmd = &cobra.Command{
	Use:   "repo <owner/repo>",
	Short: "Show activity metrics for one repository",
	Long: `Show OpenDigger activity metrics for a single repository.

Cached search details are included when available, and the repository is
scored against the saved profile when one exists.

Examples:
  reposcout repo golang/go
  reposcout repo kubernetes/kubernetes -v`,
	Args: cobra.ExactArgs(1),
	RunE: runRepo,
}

func runRepo(cmd *cobra.Command, args []string) error {
	repoID := args[0]
	parts := strings.Split(repoID, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid repository id %q, use the owner/repo form", repoID)
	}

	ctx := context.Background()

	fetcher := newOpenDiggerClient()
	repoMetrics, err := fetcher.Fetch(ctx, repoID)
	if err != nil {
		if search.IsNotFound(err) {
			fmt.Printf("No activity metrics for %s.\n", repoID)
			fmt.Println(dimStyle.Render("The repository may be too small or too new to be tracked."))
			return nil
		}
		return fmt.Errorf("fetch metrics: %w", err)
	}

	fmt.Println(headerStyle.Render(repoID))

	if cand, ok := newGitHubClient().CachedRepo(repoID); ok {
		if cand.Description != "" {
			fmt.Printf("%s\n", cand.Description)
		}
		fmt.Printf("★ %d  updated %s\n", cand.Stars, cand.LastUpdated)
		if len(cand.Keywords) > 0 {
			fmt.Printf("topics: %s\n", strings.Join(cand.Keywords, ", "))
		}
	}

	fmt.Println()
	fmt.Printf("Active days (last 30):  %d\n", repoMetrics.ActiveDaysLast30)
	fmt.Printf("New issues (last 30):   %d\n", repoMetrics.IssuesNewLast30)
	fmt.Printf("OpenRank:               %.1f\n", repoMetrics.OpenRank)

	// Best-effort score against the saved profile.
	if dbClient != nil {
		if p, err := dbClient.LoadLatest(ctx); err == nil && p != nil {
			scorer, err := newScorer("", p)
			if err != nil {
				return err
			}
			res := scorer.Calculate(*p, repoMetrics)
			fmt.Println()
			fmt.Printf("Match score: %s\n", scoreStyle.Render(fmt.Sprintf("%.3f", res.MatchScore)))
			if verbose {
				fmt.Println(dimStyle.Render(fmt.Sprintf(
					"skill: %.3f  activity: %.3f  demand: %.3f",
					res.Breakdown.Skill, res.Breakdown.Activity, res.Breakdown.Demand)))
			}
		}
	}

	return nil
}
