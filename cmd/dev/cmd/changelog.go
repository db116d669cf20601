package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func ChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate or update CHANGELOG.md from git history",
		Long: `Regenerate the changelog from conventional commits using git-chglog
(go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest).

Commit subjects are expected as <type>[scope]: <description>, with the
usual types (feat, fix, docs, refactor, test, perf, build, ci, chore).

Examples:
  dev changelog                     # regenerate CHANGELOG.md
  dev changelog --next v1.2.0       # include the upcoming release
  dev changelog --tag v1.0.0        # a single released tag
  dev changelog --output CHANGES.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := exec.LookPath("git-chglog"); err != nil {
				return fmt.Errorf("git-chglog not found in PATH: %w", err)
			}

			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("could not get output flag: %w", err)
			}
			if output == "" {
				output = "CHANGELOG.md"
			}
			chglogArgs := []string{"--output", output}

			if next, _ := cmd.Flags().GetString("next"); next != "" {
				chglogArgs = append(chglogArgs, "--next-tag", next)
			}
			if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
				chglogArgs = append(chglogArgs, tag)
			}

			slog.Info("Running git-chglog", "args", chglogArgs)
			chglog := exec.Command("git-chglog", chglogArgs...)
			chglog.Stdout = os.Stdout
			chglog.Stderr = os.Stderr
			if err := chglog.Run(); err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}

			slog.Info("Changelog generated", "output", output)
			return nil
		},
	}

	cmd.Flags().String("next", "", "Next version tag (e.g., v1.2.0)")
	cmd.Flags().String("output", "CHANGELOG.md", "Output file path")
	cmd.Flags().String("tag", "", "Generate changelog for specific tag")

	return cmd
}
