package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/incdom/internal/inspect"
	"github.com/vango-dev/incdom/internal/scenario"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr  string
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "serve <scenario.yaml>",
		Short: "Step through a scenario over HTTP",
		Long: `Serve starts the inspector: an HTTP server that applies the passes of a
scenario on request and streams every applied pass to WebSocket clients.

Routes:
  POST /step     apply the next pass
  POST /reset    discard the tree and rewind
  GET  /tree     current tree (?format=html for markup)
  GET  /ws       live updates
  GET  /metrics  Prometheus metrics

Examples:
  incdom serve reorder.yaml
  incdom serve reorder.yaml --addr=0.0.0.0:7070`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if debug || a.cfg.Debug {
				sc.Debug = true
			}
			if addr != "" {
				a.cfg.Inspect.Addr = addr
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			server := inspect.New(inspect.Options{
				Scenario:  sc,
				Addr:      a.cfg.Inspect.Addr,
				Namespace: a.cfg.Metrics.Namespace,
				Logger:    a.logger,
			})

			a.ui.printBanner()
			a.ui.success("Inspecting %s (%d passes)", sc.Name, len(sc.Passes))
			a.ui.info("http://%s", a.cfg.Inspect.Addr)
			a.ui.info("Press Ctrl+C to stop")

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from incdom.json)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable usage assertions regardless of the scenario setting")

	return cmd
}
