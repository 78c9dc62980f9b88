package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent search sessions",
	Long: `Show recently stored search sessions, newest first.

Examples:
  reposcout history
  reposcout history --limit 20`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "max sessions to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sessions, err := dbClient.RecentSessions(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No search sessions recorded yet.")
		return nil
	}

	fmt.Printf("Found %d sessions:\n\n", len(sessions))
	for i, s := range sessions {
		status := "ok"
		if !s.IsSufficient {
			status = "partial"
		}
		fmt.Printf("%d. %s  [%s]\n", i+1, s.Created.Format("2006-01-02 15:04"), status)
		fmt.Printf("   keywords: %s\n", strings.Join(s.Keywords, ", "))
		fmt.Printf("   %s\n", dimStyle.Render(fmt.Sprintf(
			"found %d of %d  checked: %d  skipped: %d  rounds: %d",
			s.ValidCount, s.TargetCount, s.ReposChecked, s.SkippedCount, s.RoundsRun)))
		if verbose {
			for _, r := range s.Results {
				line := "   - " + r.RepoID
				if r.MatchScore != nil {
					line += fmt.Sprintf("  %.3f", *r.MatchScore)
				}
				fmt.Println(line)
			}
		}
		fmt.Println()
	}
	return nil
}
