package main

import (
	"fmt"

	"github.com/aretw0/morselink"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of morselink",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "morselink version %s\n", morselink.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
