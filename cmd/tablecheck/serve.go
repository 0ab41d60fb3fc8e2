package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tablecheck/pkg/httpapi"
	"github.com/dmitrymomot/tablecheck/pkg/httpserver"
	"github.com/dmitrymomot/tablecheck/pkg/logger"
	"github.com/dmitrymomot/tablecheck/pkg/report"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation HTTP API",
		Long: `Serve POST /validate, GET /schema, health probes and Prometheus metrics.

Server settings come from HTTP_* variables; --addr overrides HTTP_ADDR. When
TABLECHECK_STORAGE is set, the artifacts of every run are published unless
the request asks otherwise with ?publish=false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}
			return a.serve(cmd.Context(), metrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $HTTP_ADDR)")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics on /metrics")
	return cmd
}

func (a *app) serve(ctx context.Context, withMetrics bool) error {
	opts := []httpapi.Option{
		httpapi.WithLogger(a.log),
		httpapi.WithMaxBodyBytes(a.cfg.HTTP.MaxBodyBytes),
		httpapi.WithShards(a.cfg.Parallel),
	}
	if withMetrics {
		opts = append(opts, httpapi.WithMetrics(httpapi.NewMetrics(a.cfg.MetricsNamespace)))
	}

	store, err := newStorage(ctx, a.cfg)
	if err != nil {
		return err
	}
	if store != nil {
		pub, err := report.NewPublisher(store, a.schema.Name(),
			report.WithPrefix(a.cfg.RunPrefix),
			report.WithLogger(a.log),
		)
		if err != nil {
			return err
		}
		opts = append(opts,
			httpapi.WithPublisher(pub),
			httpapi.WithReadinessCheck(httpserver.Check{
				Name: "storage",
				Fn: func(ctx context.Context) error {
					_, err := store.List(ctx, a.cfg.RunPrefix+"/.probe/")
					return err
				},
			}),
		)
	}

	api, err := httpapi.New(a.schema, opts...)
	if err != nil {
		return err
	}

	srv := httpserver.NewFromConfig(a.cfg.HTTP, httpserver.WithLogger(a.log))
	a.log.InfoContext(ctx, "starting validation API", logger.Schema(a.schema.Name()))
	return srv.Run(ctx, api.Router())
}
