package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored data and cache statistics",
	Long: `Show counts of stored profiles and search sessions plus cache sizes.

Examples:
  reposcout stats`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	profiles, err := dbClient.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	sessions, err := dbClient.RecentSessions(ctx, 100)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	fmt.Println(headerStyle.Render("Stored data"))
	fmt.Printf("  profiles: %d\n", len(profiles))
	fmt.Printf("  sessions: %d\n", len(sessions))

	sufficient := 0
	for _, s := range sessions {
		if s.IsSufficient {
			sufficient++
		}
	}
	if len(sessions) > 0 {
		fmt.Printf("  sufficient sessions: %d of %d\n", sufficient, len(sessions))
	}
	fmt.Println()

	return runCacheInfo(cmd, args)
}
