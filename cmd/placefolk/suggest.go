package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "Suggest places matching partial input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				return runSuggest(cmd.Context(), cmd.OutOrStdout(), d, strings.Join(args, " "))
			})
		},
	}
}

func runSuggest(ctx context.Context, out io.Writer, d *Deps, text string) error {
	list, err := d.Suggest.Suggest(ctx, text)
	if err != nil {
		return fmt.Errorf("suggesting: %w", err)
	}

	if len(list) == 0 {
		if minLen := d.Config.Search.MinSuggestLength; len([]rune(strings.TrimSpace(text))) < minLen {
			fmt.Fprintf(out, "Type at least %d characters for suggestions.\n", minLen)
			return nil
		}
		fmt.Fprintln(out, "No suggestions.")
		return nil
	}

	for _, s := range list {
		fmt.Fprintf(out, "%-30s %s\n", s.Label, s.ID)
	}
	return nil
}
