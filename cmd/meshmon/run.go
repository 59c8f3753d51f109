package main

import (
	"context"

	"github.com/mfreeman451/meshmon/pkg/api"
	"github.com/mfreeman451/meshmon/pkg/lifecycle"
	"github.com/spf13/cobra"
)

const serviceName = "meshmon"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the collection loop and the read API until stopped",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		components := []lifecycle.Component{
			{Name: "monitor", Run: a.monitor.Run, Drain: true},
		}

		if a.cfg.API.Enabled {
			srv := api.NewServer(a.store, a.cfg.API.PushInterval.Std(), a.logger)

			components = append(components, lifecycle.Component{
				Name: "api",
				Run: func(ctx context.Context) error {
					return srv.ListenAndServe(ctx, a.cfg.API.ListenAddr)
				},
			})
		}

		return lifecycle.Run(cmd.Context(), &lifecycle.Options{
			ServiceName: serviceName,
			Components:  components,
			Alive:       a.monitor.Alive,
			Logger:      a.logger,
		})
	},
}
