package main

import (
	"fmt"

	"github.com/aretw0/morselink/internal/cli"
	"github.com/aretw0/morselink/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the link state machine as a Mermaid diagram",
	Long: `Prints a Mermaid state diagram (stateDiagram-v2) of the link session.
With --live, morselink first tries to connect and highlights the resulting state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		live, _ := cmd.Flags().GetBool("live")
		if !live {
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(nil))
			return nil
		}

		app, err := buildApp(cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer app.Close()

		_ = app.Messenger.Connect(cmd.Context())
		st := app.Messenger.Status()
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(&graph.Overlay{
			Current:  st.State,
			ErrorKey: st.ErrorKey,
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("live", false, "Connect first and highlight the current state")
}
