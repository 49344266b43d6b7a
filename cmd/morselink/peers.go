package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/morselink/internal/cli"
	"github.com/aretw0/morselink/internal/logging"
	"github.com/spf13/cobra"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "List the peers the transport knows about",
	Long:  `Lists known peers and marks the one whose name matches peer.name, the one a session would dial.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, err := cli.NewTransport(cfg, logging.NewNop())
		if err != nil {
			return err
		}

		peers, err := transport.Peers(cmd.Context())
		if err != nil {
			return err
		}

		target := strings.ToLower(cfg.Peer.Name)
		selected := false
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tADDRESS")
		for _, p := range peers {
			mark := ""
			if !selected && p.Name != "" && strings.Contains(strings.ToLower(p.Name), target) {
				mark, selected = "*", true
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", mark, p.Name, p.Address)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if !selected {
			fmt.Fprintf(cmd.ErrOrStderr(), "no peer matches %q\n", cfg.Peer.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(peersCmd)
}
