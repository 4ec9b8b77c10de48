// Package commands implements the CLI commands for stagehand.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/stagehand/internal/adapters/config"
	"go.trai.ch/stagehand/internal/app"
	"go.trai.ch/stagehand/internal/build"
)

// CLI represents the command line interface for stagehand.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "stagehand",
		Short:         "Scripted scene switching with instance and descriptor caches",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Path to the configuration file")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects the command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	path, _ := cmd.Flags().GetString("config")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return app.RunOptions{
		ConfigPath: path,
		Quiet:      quiet,
	}
}
