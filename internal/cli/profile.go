package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jzhao-dev/reposcout/internal/db"
	"github.com/jzhao-dev/reposcout/internal/llm"
	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/spf13/cobra"
)

var (
	profileFile   string
	profileNoSave bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage skill profiles",
	Long:  `Build, inspect, and list the skill profiles used by 'recommend'.`,
}

var profileBuildCmd = &cobra.Command{
	Use:   "build [text...]",
	Short: "Extract a profile from a free-text self-description",
	Long: `Extract a structured skill profile from free text using the configured LLM.

The profile is saved and becomes the default for 'recommend'.

Examples:
  reposcout profile build "I write Go services and review Kubernetes PRs"
  reposcout profile build --file about-me.txt
  cat resume.txt | reposcout profile build --file -`,
	RunE: runProfileBuild,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved profile (default: the most recent)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileShow,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved profiles, newest first",
	RunE:  runProfileList,
}

func init() {
	profileBuildCmd.Flags().StringVarP(&profileFile, "file", "f", "", "read the description from a file ('-' for stdin)")
	profileBuildCmd.Flags().BoolVar(&profileNoSave, "no-save", false, "print the extracted profile without saving it")

	profileCmd.AddCommand(profileBuildCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileListCmd)
}

func runProfileBuild(cmd *cobra.Command, args []string) error {
	text, err := profileText(args)
	if err != nil {
		return err
	}

	builder, err := getBuilder()
	if err != nil {
		return err
	}

	ctx := context.Background()
	p, err := builder.BuildFromText(ctx, text)
	if err != nil {
		if errors.Is(err, llm.ErrFatalAPI) {
			return fmt.Errorf("extract profile: %w; check LLM credentials, billing, and quota", err)
		}
		return fmt.Errorf("extract profile: %w", err)
	}

	if !profileNoSave {
		id, err := dbClient.SaveProfile(ctx, p, text)
		if err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		p.ID = id
	}

	printProfile(p)
	if profileNoSave {
		fmt.Println(dimStyle.Render("Profile not saved (--no-save)."))
	}
	return nil
}

// profileText resolves the description from args, a file, or stdin.
func profileText(args []string) (string, error) {
	if profileFile == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if profileFile != "" {
		data, err := os.ReadFile(profileFile)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("provide a description as arguments or via --file")
	}
	return strings.Join(args, " "), nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var p *models.UserProfile
	var err error
	if len(args) == 1 {
		p, err = dbClient.LoadByID(ctx, args[0])
		if errors.Is(err, db.ErrNotFound) {
			fmt.Printf("No profile with id %s. See 'reposcout profile list'.\n", args[0])
			return nil
		}
	} else {
		p, err = dbClient.LoadLatest(ctx)
	}
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		fmt.Println("No profile saved yet. Create one with 'reposcout profile build'.")
		return nil
	}

	printProfile(*p)
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	profiles, err := dbClient.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles saved yet.")
		return nil
	}

	fmt.Printf("Found %d profiles:\n\n", len(profiles))
	for i, p := range profiles {
		fmt.Printf("%d. %s\n", i+1, p.ID)
		fmt.Printf("   skills: %s\n", strings.Join(p.Skills, ", "))
		fmt.Printf("   %s\n", dimStyle.Render(fmt.Sprintf("%s, %s", p.ContributionStyle, p.ExperienceLevel)))
		fmt.Println()
	}
	return nil
}
