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
		Short: "Regenerate the changelog from conventional commits",
		Long: `Regenerate the changelog with git-chglog.

Commit subjects follow Conventional Commits, scoped by package where it helps:
  fix(protocol): reset the error budget after a successful read
  feat(display): four digit monitor mode

Examples:
  dev changelog
  dev changelog --next v0.3.0
  dev changelog --tag v0.2.0 --output RELEASE.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("could not get output flag: %w", err)
			}
			next, err := cmd.Flags().GetString("next")
			if err != nil {
				return fmt.Errorf("could not get next flag: %w", err)
			}
			tag, err := cmd.Flags().GetString("tag")
			if err != nil {
				return fmt.Errorf("could not get tag flag: %w", err)
			}
			bin, err := exec.LookPath("git-chglog")
			if err != nil {
				return fmt.Errorf("git-chglog not installed (go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest): %w", err)
			}

			chglogArgs := []string{"--output", output}
			if next != "" {
				chglogArgs = append(chglogArgs, "--next-tag", next)
			}
			if tag != "" {
				chglogArgs = append(chglogArgs, tag)
			}
			slog.Info("generating changelog", "output", output, "next", next, "tag", tag)
			c := exec.Command(bin, chglogArgs...)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			if err := c.Run(); err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("next", "", "tag the unreleased commits as this version")
	cmd.Flags().String("output", "CHANGELOG.md", "output file")
	cmd.Flags().String("tag", "", "only generate the section for this tag")
	return cmd
}
