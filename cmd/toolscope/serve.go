package main

import (
	"github.com/spf13/cobra"

	"github.com/sakif/toolscope/internal/config"
	"github.com/sakif/toolscope/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the directory over HTTP until interrupted.

The API lives under /api, Prometheus metrics under /metrics and a health
check under /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New(server.Config{
				Port:        a.cfg.Port,
				CatalogPath: a.cfg.CatalogDB,
				SavedPath:   a.cfg.SavedDB,
			}, a.logger)
			if err != nil {
				return err
			}
			return srv.Start()
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "port to listen on")
	bindFlag(a.v, cmd, false, "port", "port")
	return cmd
}
