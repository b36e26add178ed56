package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/placefolk/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration",
		Long:  "Creates a .placefolk directory with a commented default configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			return runInit(cmd, cwd)
		},
	}
}

func runInit(cmd *cobra.Command, basePath string) error {
	if config.Exists(basePath) {
		return fmt.Errorf("placefolk already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	if _, err := config.Load(basePath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", config.ConfigFilePath(basePath))
	fmt.Fprintln(out, "Placefolk initialized successfully!")
	return nil
}
