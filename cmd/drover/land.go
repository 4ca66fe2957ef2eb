package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/drovertool/drover/internal/cli"
)

// landCmd represents the land command
var landCmd = &cobra.Command{
	Use:   "land",
	Short: "Merge the pull request for this branch and clean up",
	Long: `Land merges the current branch's pull request, switches the checkout
back to the trunk branch, deletes the local branch, and untracks it from
the stacked-branch manager when it was tracked.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.LandOptions{}
		opts.Dir, _ = cmd.Flags().GetString("dir")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.Method, _ = cmd.Flags().GetString("method")
		opts.KeepBranch, _ = cmd.Flags().GetBool("keep-branch")

		if err := cli.Land(cmd.Context(), opts); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(landCmd)

	landCmd.Flags().String("method", "squash", "Merge method: squash, merge, or rebase")
	landCmd.Flags().Bool("keep-branch", false, "Keep the local branch after merging")
}
