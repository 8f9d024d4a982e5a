package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/otto/internal/commands"
)

func (c *CLI) newFixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix [-- biome args...]",
		Short: "Apply automatic lint fixes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Fix(cmd.Context(), runOptions(cmd), commands.FixArgs{
				BiomeArgs: args,
			})
		},
	}
}
