package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/morselink/internal/cli"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <text...>",
	Short: "Translate text and send it to the peer as one line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		res, err := app.Messenger.Transmit(ctx, strings.Join(args, " "))
		if res.Kind == domain.KindTranslated {
			fmt.Fprintln(cmd.OutOrStdout(), res.Code)
		}
		if msg := cli.Explain(res, err); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
