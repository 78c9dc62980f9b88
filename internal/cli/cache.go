package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the file caches",
	Long: `Inspect and clear the GitHub search cache and the OpenDigger metrics cache.

Search results expire after 24 hours; metrics are refreshed when OpenDigger
publishes new monthly data.`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache locations and sizes",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [owner/repo]",
	Short: "Clear cached data, optionally for a single repository",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	ghStats, err := newGitHubClient().CacheInfo()
	if err != nil {
		return fmt.Errorf("github cache info: %w", err)
	}
	odStats, err := newOpenDiggerClient().CacheInfo()
	if err != nil {
		return fmt.Errorf("opendigger cache info: %w", err)
	}

	fmt.Println(headerStyle.Render("GitHub search cache"))
	fmt.Printf("  dir:   %s\n", ghStats.Dir)
	fmt.Printf("  repos: %d\n", ghStats.TotalRepos)
	fmt.Printf("  size:  %s\n", formatBytes(ghStats.TotalBytes))
	fmt.Println()
	fmt.Println(headerStyle.Render("OpenDigger metrics cache"))
	fmt.Printf("  dir:   %s\n", odStats.Dir)
	fmt.Printf("  repos: %d\n", odStats.TotalRepos)
	fmt.Printf("  files: %d\n", odStats.TotalFiles)
	fmt.Printf("  size:  %s\n", formatBytes(odStats.TotalBytes))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	repoID := ""
	if len(args) == 1 {
		repoID = args[0]
	}

	ghRemoved, err := newGitHubClient().ClearCache(repoID)
	if err != nil {
		return fmt.Errorf("clear github cache: %w", err)
	}
	odRemoved, err := newOpenDiggerClient().ClearCache(repoID)
	if err != nil {
		return fmt.Errorf("clear opendigger cache: %w", err)
	}

	if repoID != "" {
		fmt.Printf("Cleared %d cached files for %s.\n", ghRemoved+odRemoved, repoID)
	} else {
		fmt.Printf("Cleared %d cached files.\n", ghRemoved+odRemoved)
	}
	return nil
}

// formatBytes renders a byte count in a human-readable unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
