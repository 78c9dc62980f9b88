package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/jzhao-dev/reposcout/internal/search"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	recommendSkills []string
	recommendStyle  string
	recommendLevel  string
	recommendCount  int
	recommendPreset string
	recommendPlain  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend repositories ranked by match score",
	Long: `Recommend repositories matching a skill profile.

Searches keyword combinations derived from the profile skills across multiple
rounds, deduplicates globally, and ranks the pool by match score. Without
--skills the most recently saved profile is used (see 'profile build').

Examples:
  reposcout recommend
  reposcout recommend --skills go,docker,kubernetes
  reposcout recommend --skills python --style issue_solver --level beginner
  reposcout recommend --preset beginner --count 20`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringSliceVarP(&recommendSkills, "skills", "s", nil, "skills to match (default: saved profile)")
	recommendCmd.Flags().StringVar(&recommendStyle, "style", "", "contribution style (issue_solver, pr_contributor, docs_writer, reviewer, general)")
	recommendCmd.Flags().StringVar(&recommendLevel, "level", "", "experience level (beginner, intermediate, advanced)")
	recommendCmd.Flags().IntVarP(&recommendCount, "count", "n", 10, "number of ranked repositories to return")
	recommendCmd.Flags().StringVar(&recommendPreset, "preset", "", "scoring preset (beginner, expert, issue_solver)")
	recommendCmd.Flags().BoolVar(&recommendPlain, "plain", false, "disable the interactive progress display")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Resolve the profile up front so its style and level can pick the
	// scoring preset when no explicit --preset is given.
	var profile *models.UserProfile
	if len(recommendSkills) > 0 {
		p := models.NewUserProfile(
			recommendSkills,
			models.ParseContributionStyle(recommendStyle),
			models.ParseExperienceLevel(recommendLevel),
		)
		profile = &p
	} else if dbClient != nil {
		p, err := dbClient.LoadLatest(ctx)
		if err != nil {
			logger.Warn("loading saved profile failed", "error", err)
		} else {
			profile = p
		}
	}

	scorer, err := newScorer(recommendPreset, profile)
	if err != nil {
		return err
	}

	opts := search.DefaultOptions()
	opts.TargetCount = recommendCount

	var result models.IntegratedSearchResult
	if recommendPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		result = newCoordinator(scorer, nil).SearchWithProfile(ctx, profile, opts)
	} else {
		result, err = runSearchProgress(ctx, func(runCtx context.Context, onProgress func(search.Event)) (models.IntegratedSearchResult, error) {
			return newCoordinator(scorer, onProgress).SearchWithProfile(runCtx, profile, opts), nil
		})
		if err != nil {
			return err
		}
	}

	if dbClient != nil {
		if _, err := dbClient.SaveSession(ctx, result); err != nil {
			logger.Warn("failed to save search session", "error", err)
		}
	}

	printSearchResult(result, true)

	if !result.IsSufficient && len(result.Repositories) == 0 {
		fmt.Println(dimStyle.Render("Hint: save a profile first with 'reposcout profile build'."))
	}
	return nil
}
