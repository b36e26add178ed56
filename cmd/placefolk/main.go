// Package main provides the entry point for the placefolk CLI application.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version     = "0.1.0-dev"
	globalScope string
	verbose     bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "placefolk",
		Short:         "Find notable people born in, died in or residing in a place",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globalScope, "scope", "s", "", "Country scope to search in (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newInitCmd(),
		newSearchCmd(),
		newSuggestCmd(),
		newShareCmd(),
		newOpenCmd(),
		newServeCmd(),
		newScopesCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
