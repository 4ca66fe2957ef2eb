package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/drovertool/drover/internal/cli"
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Commit, push, and open or update the pull request for this branch",
	Long: `Submit runs the whole flow in one go: commits outstanding changes,
pushes the branch, finds or creates the pull request, and fills in a
description generated from the diff and the linked plan.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.SubmitOptions{}
		opts.Dir, _ = cmd.Flags().GetString("dir")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.Force, _ = cmd.Flags().GetBool("force")
		opts.Stack, _ = cmd.Flags().GetBool("stack")
		opts.NoStack, _ = cmd.Flags().GetBool("no-stack")
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
		opts.Preview, _ = cmd.Flags().GetBool("preview")
		opts.Plan, _ = cmd.Flags().GetInt("plan")
		opts.MetricsListen, _ = cmd.Flags().GetString("metrics-listen")

		if err := cli.Submit(cmd.Context(), opts); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().BoolP("force", "f", false, "Push even when local and remote history diverged")
	submitCmd.Flags().Bool("stack", false, "Submit through the stacked-branch manager")
	submitCmd.Flags().Bool("no-stack", false, "Submit with plain git and the code host CLI")
	submitCmd.Flags().BoolP("dry-run", "n", false, "Narrate every mutation instead of executing it")
	submitCmd.Flags().Bool("preview", false, "Dry-run, then render the generated description")
	submitCmd.Flags().Int("plan", 0, "Issue number to link, overriding branch-name inference")
	submitCmd.Flags().String("metrics-listen", "", "Serve Prometheus metrics on this address while running")
}
