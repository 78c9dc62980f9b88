package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/jzhao-dev/reposcout/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
)

// printSearchResult renders a search result to stdout. When scored is
// true, match scores are shown next to each repository.
func printSearchResult(result models.IntegratedSearchResult, scored bool) {
	if len(result.Repositories) == 0 {
		fmt.Println("No repositories found.")
		if result.Message != "" {
			fmt.Println(dimStyle.Render(result.Message))
		}
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d repositories:", len(result.Repositories))))
	fmt.Println()

	for i, repo := range result.Repositories {
		line := fmt.Sprintf("%2d. %s", i+1, headerStyle.Render(repo.RepoID))
		if scored && repo.MatchScore != nil {
			line += "  " + scoreStyle.Render(fmt.Sprintf("%.3f", *repo.MatchScore))
		}
		fmt.Println(line)

		if repo.Description != "" {
			desc := repo.Description
			if len(desc) > 100 {
				desc = desc[:100] + "..."
			}
			fmt.Printf("    %s\n", desc)
		}

		fmt.Printf("    %s\n", dimStyle.Render(fmt.Sprintf(
			"★ %d  active days: %d  new issues: %d  openrank: %.1f",
			repo.Stars,
			repo.Metrics.ActiveDaysLast30,
			repo.Metrics.IssuesNewLast30,
			repo.Metrics.OpenRank)))

		if verbose && scored && repo.Breakdown != nil {
			fmt.Printf("    %s\n", dimStyle.Render(fmt.Sprintf(
				"skill: %.3f  activity: %.3f  demand: %.3f",
				repo.Breakdown.Skill, repo.Breakdown.Activity, repo.Breakdown.Demand)))
		}
		fmt.Println()
	}

	if !result.IsSufficient {
		fmt.Println(warnStyle.Render(result.Message))
	} else if verbose {
		fmt.Println(dimStyle.Render(result.Message))
	}

	if verbose {
		fmt.Println(dimStyle.Render(fmt.Sprintf(
			"checked: %d  skipped: %d  rounds: %d",
			result.ReposChecked, result.SkippedCount, result.RoundsRun)))
	}
}

// printProfile renders a profile to stdout.
func printProfile(p models.UserProfile) {
	if p.ID != "" {
		fmt.Printf("ID:     %s\n", p.ID)
	}
	fmt.Printf("Skills: %v\n", p.Skills)
	fmt.Printf("Style:  %s\n", p.ContributionStyle)
	fmt.Printf("Level:  %s\n", p.ExperienceLevel)
}
