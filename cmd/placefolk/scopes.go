package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/placefolk/internal/infrastructure/config"
)

func newScopesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scopes",
		Short: "Manage country scopes",
		RunE:  runScopesListCmd,
	}

	cmd.AddCommand(
		newScopesListCmd(),
		newScopesAddCmd(),
		newScopesRemoveCmd(),
	)

	return cmd
}

func newScopesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all scopes",
		RunE:  runScopesListCmd,
	}
}

func runScopesListCmd(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	return runScopesList(cmd.OutOrStdout(), cwd)
}

func runScopesList(out io.Writer, basePath string) error {
	scopes, err := config.LoadScopes(basePath)
	if err != nil {
		return fmt.Errorf("loading scopes: %w", err)
	}

	fmt.Fprintf(out, "%-20s %-10s %-25s %-8s %s\n", "NAME", "COUNTRY", "COUNTRY NAME", "LANG", "PLACE CLASS")
	fmt.Fprintf(out, "%-20s %-10s %-25s %-8s %s\n", "----", "-------", "------------", "----", "-----------")

	for _, name := range scopes.Names() {
		s := scopes.Scopes[name]
		fmt.Fprintf(out, "%-20s %-10s %-25s %-8s %s\n", name, s.CountryID, s.CountryName, s.Language, s.PlaceClass)
	}
	return nil
}

func newScopesAddCmd() *cobra.Command {
	var scope config.Scope

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or replace a scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			return runScopesAdd(cmd.OutOrStdout(), cwd, args[0], scope)
		},
	}

	cmd.Flags().StringVar(&scope.CountryID, "country-id", "", "Country item id, e.g. Q142")
	cmd.Flags().StringVar(&scope.CountryName, "country-name", "", "Country name used in messages")
	cmd.Flags().StringVar(&scope.Language, "language", "en", "Label language")
	cmd.Flags().StringVar(&scope.PlaceClass, "place-class", "Q515", "Class of places offered as suggestions")
	_ = cmd.MarkFlagRequired("country-id")
	_ = cmd.MarkFlagRequired("country-name")

	return cmd
}

func runScopesAdd(out io.Writer, basePath, name string, scope config.Scope) error {
	scopes, err := config.LoadScopes(basePath)
	if err != nil {
		return fmt.Errorf("loading scopes: %w", err)
	}

	key, err := scopes.Add(name, scope)
	if err != nil {
		return fmt.Errorf("invalid scope: %w", err)
	}

	if err := scopes.Save(basePath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Saved scope %q (%s, %s)\n", key, scope.CountryName, scope.CountryID)
	return nil
}

func newScopesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			return runScopesRemove(cmd.OutOrStdout(), cwd, args[0])
		},
	}
}

func runScopesRemove(out io.Writer, basePath, name string) error {
	scopes, err := config.LoadScopes(basePath)
	if err != nil {
		return fmt.Errorf("loading scopes: %w", err)
	}

	if _, err := scopes.Get(name); err != nil {
		return err
	}
	scopes.Remove(name)

	if err := scopes.Save(basePath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Removed scope %q\n", config.SanitizeScopeName(name))
	return nil
}
