package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/galvani"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of galvani",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "galvani version %s\n", strings.TrimSpace(galvani.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
