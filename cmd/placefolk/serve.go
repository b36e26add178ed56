package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/placefolk/internal/infrastructure/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API and suggestion stream over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				cfg := d.Config.Server
				if addr != "" {
					cfg.Addr = addr
				}

				sessions := server.NewSessions(cfg.MaxSessions, d.Config.Search.SuggestDelay, d.Metrics)
				srv := server.New(cfg, d.Search, d.Suggest, sessions, d.Metrics, d.Logger)

				d.Logger.Info("serving", "scope", d.ScopeName, "country", d.Scope.CountryName)
				return srv.Run(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
