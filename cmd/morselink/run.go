package main

import (
	"github.com/aretw0/morselink/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Translate and send lines typed on standard input",
	Long: `Starts an interactive session: every line read from standard input is translated
and sent to the peer. Piped input is processed line by line without prompts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		connect, _ := cmd.Flags().GetBool("connect")
		quiet, _ := cmd.Flags().GetBool("quiet")
		path, _ := cmd.Flags().GetString("config")
		level, _ := cmd.Flags().GetString("log-level")

		return cli.Execute(cli.RunOptions{
			ConfigPath: path,
			LogLevel:   level,
			DryRun:     dryRun,
			Connect:    connect,
			Quiet:      quiet,
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("dry-run", false, "Translate only, never open the link")
	runCmd.Flags().Bool("connect", false, "Connect before reading the first line")
	runCmd.Flags().BoolP("quiet", "q", false, "No banner, prompts or notices")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
