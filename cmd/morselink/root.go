package main

import (
	"fmt"
	"os"

	"github.com/aretw0/morselink/internal/cli"
	"github.com/aretw0/morselink/internal/config"
	"github.com/aretw0/morselink/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "morselink",
	Short: "morselink translates text to Morse code and sends it to a serial peer",
	Long: `morselink encodes text as International Morse and writes each encoded line,
newline terminated, to a peer reached over RFCOMM, TCP or an in-memory link.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (default "+config.DefaultFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level (debug, info, warn, error)")
}

// loadConfig reads the configuration named by --config and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if _, err := logging.ParseLevel(level); err != nil {
			return cfg, err
		}
		cfg.Log.Level = level
	}
	return cfg, nil
}

// buildApp loads the configuration and wires a Messenger from it.
func buildApp(cmd *cobra.Command, opts cli.BuildOptions) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.Build(cfg, opts)
}
