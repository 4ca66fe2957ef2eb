package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drovertool/drover"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drover",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("drover version %s\n", strings.TrimSpace(drover.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
