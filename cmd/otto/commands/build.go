package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/otto/internal/commands"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Check and build packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, _ := cmd.Flags().GetBool("release")
			watch, _ := cmd.Flags().GetBool("watch")
			lintFail, _ := cmd.Flags().GetBool("lint-fail")

			return c.app.Build(cmd.Context(), runOptions(cmd), commands.BuildArgs{
				Release:  release,
				Watch:    watch,
				LintFail: lintFail,
			})
		},
	}
	cmd.Flags().BoolP("release", "r", false, "Build in release mode")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild when files change")
	cmd.Flags().BoolP("lint-fail", "l", false, "Fail the build on lint findings")
	return cmd
}
