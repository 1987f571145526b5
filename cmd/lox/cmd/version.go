package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("lox version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
