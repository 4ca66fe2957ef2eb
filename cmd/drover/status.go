package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/drovertool/drover/internal/cli"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report branch, tree, remote, pull request, and stack state",
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.StatusOptions{}
		opts.Dir, _ = cmd.Flags().GetString("dir")
		opts.Debug, _ = cmd.Flags().GetBool("debug")

		if err := cli.Status(cmd.Context(), opts); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
