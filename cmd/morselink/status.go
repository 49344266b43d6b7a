package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/morselink/internal/cli"
	"github.com/aretw0/morselink/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Try to connect to the peer and report the link state",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := buildApp(cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer app.Close()

		// The outcome lands in the status snapshot.
		_ = app.Messenger.Connect(cmd.Context())
		st := app.Messenger.Status()

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		render := tui.PlainRenderer()
		if cli.IsInteractive(os.Stdout) {
			render = tui.NewRenderer()
		}
		out, err := render(tui.StatusMarkdown(st, cli.Describe))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("json", false, "Print the status as JSON")
}
