package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [steps...]",
		Short: "Run lifecycle steps in order",
		Long: `Run lifecycle steps in order against a fresh controller.

Steps:
  switch=KEY               switch to KEY, caching the outgoing instance
  switch-nocache=KEY       switch to KEY, disposing the outgoing instance
  preload=KEY              load KEY in the background
  clear                    empty both caches
  capacity=instances:N     resize the instance cache
  capacity=descriptors:N   resize the descriptor cache
  tick=N                   advance N ticks`,
		Example: "  stagehand run switch=levels/a.tscn preload=levels/b.tscn switch=levels/b.tscn",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return c.app.Run(cmd.Context(), args, runOptions(cmd))
		},
	}
}
