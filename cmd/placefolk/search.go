package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/placefolk/internal/application/handlers"
	"github.com/ersonp/placefolk/internal/domain/entities"
)

type searchOptions struct {
	sort       string
	profession string
	pages      int
	all        bool
	format     string
}

// searchOutput is the JSON document printed with --format json.
type searchOutput struct {
	Result *handlers.SearchResult `json:"result"`
	Pages  []*handlers.ViewResult `json:"pages,omitempty"`
	Share  string                 `json:"share,omitempty"`
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <place>",
		Short: "Find notable people connected to a place",
		Long: "Resolves the place, expands it into its sub-regions and collects every person " +
			"born in, died in or residing in any of them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				return runSearch(cmd.Context(), cmd.OutOrStdout(), d, strings.Join(args, " "), opts)
			})
		},
	}

	addSearchFlags(cmd, &opts)
	return cmd
}

func addSearchFlags(cmd *cobra.Command, opts *searchOptions) {
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort by name, birth or death")
	cmd.Flags().StringVarP(&opts.profession, "profession", "p", "", "Only show people with this occupation")
	cmd.Flags().IntVarP(&opts.pages, "pages", "n", DefaultPages, "Number of pages to show")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Show every page")
	cmd.Flags().StringVarP(&opts.format, "format", "f", outputText, "Output format (text, json)")
}

func (o searchOptions) validate() (entities.SortKey, error) {
	if !slices.Contains(validFormats, o.format) {
		return "", fmt.Errorf("invalid format %q, valid formats: %v", o.format, validFormats)
	}
	if o.pages < 1 && !o.all {
		return "", fmt.Errorf("pages must be at least 1, got %d", o.pages)
	}
	return entities.ParseSortKey(o.sort)
}

func runSearch(ctx context.Context, out io.Writer, d *Deps, text string, opts searchOptions) error {
	sortKey, err := opts.validate()
	if err != nil {
		return err
	}

	sess := handlers.NewSession(cliSessionID, d.Config.Search.SuggestDelay)
	defer sess.Close()

	d.Logger.Debug(handlers.BusyMessage(text), "scope", d.ScopeName)
	result, err := d.Search.Search(ctx, sess, text)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	var pages []*handlers.ViewResult
	if result.ShowControls() {
		pages, err = collectPages(d.Search, sess, sortKey, opts)
		if err != nil {
			return err
		}
	}

	share, _ := handlers.ShareLink(d.Config.Server.BaseURL, result.Query)

	if opts.format == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(searchOutput{Result: result, Pages: pages, Share: share}); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		printSearch(out, result, pages, share)
	}

	if result.Outcome == handlers.OutcomeFailed {
		return fmt.Errorf("collection stopped early: %w", result.Err)
	}
	return nil
}

// collectPages applies the view options and pages through the result set.
func collectPages(h *handlers.SearchHandler, sess *handlers.Session, sortKey entities.SortKey, opts searchOptions) ([]*handlers.ViewResult, error) {
	view, err := h.Sort(sess, sortKey)
	if err != nil {
		return nil, fmt.Errorf("sorting: %w", err)
	}
	if opts.profession != "" {
		if view, err = h.FilterProfession(sess, opts.profession); err != nil {
			return nil, fmt.Errorf("filtering: %w", err)
		}
	}

	pages := []*handlers.ViewResult{view}
	for view.HasMore && (opts.all || len(pages) < opts.pages) {
		if view, err = h.LoadMore(sess); err != nil {
			return nil, fmt.Errorf("loading more: %w", err)
		}
		pages = append(pages, view)
	}
	return pages, nil
}

func printSearch(out io.Writer, result *handlers.SearchResult, pages []*handlers.ViewResult, share string) {
	fmt.Fprintln(out, result.Message)
	if !result.ShowControls() {
		return
	}

	if len(result.Occupations) > 0 {
		fmt.Fprintf(out, "Occupations: %s\n", strings.Join(result.Occupations, ", "))
	}
	fmt.Fprintln(out)

	n := 0
	for _, page := range pages {
		if len(page.People) == 0 && page.Message != "" {
			fmt.Fprintln(out, page.Message)
			continue
		}
		for _, p := range page.People {
			n++
			printPerson(out, n, p)
		}
	}

	if last := pages[len(pages)-1]; last.HasMore {
		fmt.Fprintf(out, "\nShowing %d of %d. Use --pages or --all for more.\n", n, last.Matched)
	}
	if share != "" {
		fmt.Fprintf(out, "\nShare: %s\n", share)
	}
}

func printPerson(out io.Writer, n int, p entities.PersonRecord) {
	fmt.Fprintf(out, "%3d. %-35s %s-%s", n, p.Label, formatYear(p.BirthYear), formatYear(p.DeathYear))
	if p.Occupation != "" {
		fmt.Fprintf(out, "  %s", p.Occupation)
	}
	fmt.Fprintf(out, "\n     %s\n", p.URL())
}

func formatYear(y *int) string {
	if y == nil {
		return birthDeathNone
	}
	return strconv.Itoa(*y)
}

// errNoSearchParam is returned by open for URLs without a shared search.
var errNoSearchParam = errors.New("url has no " + handlers.SearchParam + " parameter")

func newOpenCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "open <url>",
		Short: "Run the search carried by a shared link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, ok := handlers.InitialSearch(args[0])
			if !ok {
				return errNoSearchParam
			}
			return withDeps(func(d *Deps) error {
				return runSearch(cmd.Context(), cmd.OutOrStdout(), d, text, opts)
			})
		},
	}

	addSearchFlags(cmd, &opts)
	return cmd
}
