package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of studyhub",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "studyhub version %s\n", strings.TrimSpace(studyhub.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
