package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/placefolk/internal/application/handlers"
	"github.com/ersonp/placefolk/internal/infrastructure/config"
)

func newShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <place>",
		Short: "Print a link that reruns a search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			return runShare(cmd.OutOrStdout(), cwd, strings.Join(args, " "))
		},
	}
}

func runShare(out io.Writer, basePath, text string) error {
	cfg, err := config.Load(basePath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	link, err := handlers.ShareLink(cfg.Server.BaseURL, text)
	if err != nil {
		return fmt.Errorf("building share link: %w", err)
	}
	fmt.Fprintln(out, link)
	return nil
}
