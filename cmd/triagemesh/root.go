package main

import (
	"github.com/spf13/cobra"
	"github.com/triagemesh/triagemesh/logging"
)

var (
	flagConfig  string
	flagVerbose bool
	flagFormat  string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "triagemesh",
		Short:         "Canadian ER triage agent orchestration",
		Long:          "triagemesh provisions a fleet of specialized triage agents, runs the triage conversation and evaluates the transcript.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file (YAML)")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flagFormat, "log-format", "text", "log format: text or json")

	cmd.AddCommand(runCmd())
	cmd.AddCommand(generateDataCmd())
	cmd.AddCommand(uploadDatasetCmd())
	cmd.AddCommand(redteamCmd())

	return cmd
}

func newLogger() logging.Logger {
	level := logging.LogLevelInfo
	if flagVerbose {
		level = logging.LogLevelDebug
	}
	return logging.NewSlogLogger(level, flagFormat, false)
}
