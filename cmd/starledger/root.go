package main

import (
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "starledger",
		Short:         "Private star registry on a hash-chained ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newKeygenCmd(),
		newSignCmd(),
		newVerifyCmd(),
	)
	return root
}

func newLogger(level slog.Level) *slog.Logger {
	logger := pterm.DefaultLogger.WithLevel(ptermLevel(level))
	return slog.New(pterm.NewSlogHandler(logger))
}

func ptermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case level <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case level <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}
