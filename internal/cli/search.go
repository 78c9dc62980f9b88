package cli

import (
	"context"

	"github.com/jzhao-dev/reposcout/internal/search"
	"github.com/spf13/cobra"
)

var searchCount int

var searchCmd = &cobra.Command{
	Use:   "search <keyword>...",
	Short: "Search repositories by keywords, qualified by activity metrics",
	Long: `Search GitHub repositories by topic keywords.

Every candidate is qualified through OpenDigger activity metrics; repositories
without usable metrics are skipped. Results are unranked - use 'recommend'
for profile-based ranking.

Examples:
  reposcout search go cli
  reposcout search "machine learning" --count 20`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchCount, "count", "n", 10, "number of qualified repositories to return")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	scorer, err := newScorer("", nil)
	if err != nil {
		return err
	}
	coordinator := newCoordinator(scorer, nil)

	opts := search.DefaultOptions()
	opts.TargetCount = searchCount

	result := coordinator.SearchWithMetrics(ctx, args, opts)

	if dbClient != nil {
		if _, err := dbClient.SaveSession(ctx, result); err != nil {
			logger.Warn("failed to save search session", "error", err)
		}
	}

	printSearchResult(result, false)
	return nil
}
