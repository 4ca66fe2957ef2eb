package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/drovertool/drover/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "drover",
	Short: "Drover herds a branch from dirty tree to reviewed pull request",
	Long: `Drover drives git, the code host CLI, and the stacked-branch manager
through one repeatable submit flow: commit what is pending, push, open or
update the pull request, and describe it from the changes and the linked
plan.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := cli.NewSignalContext(context.Background())
	defer ctx.Cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Working directory to operate in")
	rootCmd.PersistentFlags().Bool("debug", false, "Verbose logging to stderr")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
