package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/aretw0/morselink/internal/cli"
	"github.com/aretw0/morselink/pkg/codetable"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/transcoder"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Print the Morse encoding of text without sending it",
	Long: `Translates the arguments joined by spaces, or every line of standard input when
no arguments are given. Nothing is sent to the peer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("table")
		if name == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			name = cfg.Table
		}
		table, err := codetable.ByName(name)
		if err != nil {
			return err
		}
		tc := transcoder.New(transcoder.WithTable(table))
		out := cmd.OutOrStdout()

		var failed error
		emit := func(text string) {
			res := tc.Translate(text)
			if res.Kind == domain.KindTranslated {
				fmt.Fprintln(out, res.Code)
			}
			if msg := cli.Explain(res, res.Err()); msg != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				failed = res.Err()
			}
		}

		if len(args) > 0 {
			emit(strings.Join(args, " "))
			return failed
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			emit(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		return failed
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringP("table", "t", "", "Code table: default or itu (overrides the configuration)")
}
