package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/co2-fit-explorer/internal/adapter/console"
	httpadapter "github.com/couchcryptid/co2-fit-explorer/internal/adapter/http"
	"github.com/couchcryptid/co2-fit-explorer/internal/pipeline"
	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

func (a *app) exploreCmd() *cobra.Command {
	var (
		format      string
		target      float64
		httpEnabled bool
		httpAddr    string
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Apply slider adjustments read from stdin and stream frames",
		Long: `Draw every session, then read adjustments one per line from stdin and
write the redrawn frame after each one:

  early slope 1.3
  recent intercept 402.5
  early confirm

Blank lines and text after '#' are ignored. Lines that do not parse or name
an unknown session are logged and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			series, src, err := a.loadSeries()
			if err != nil {
				return err
			}
			c, err := a.newController(series, target, cmd.Flags().Changed("target"))
			if err != nil {
				return err
			}
			writer, err := console.NewWriter(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}

			reader := console.NewReader(cmd.InOrStdin())
			defer reader.Close()

			p := pipeline.New(
				reader,
				pipeline.NewTransformer(c, a.logger),
				writer,
				a.logger,
				a.metrics,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			a.logger.Info("exploration started",
				"path", src.Path, "column", src.Column, "points", src.Points,
				"sessions", len(c.Sessions()), "target", c.Target(),
			)

			g, gctx := errgroup.WithContext(ctx)
			if httpEnabled {
				srv := httpadapter.NewServer(httpAddr, p, a.logger)
				g.Go(func() error {
					return srv.Serve(gctx, a.cfg.ShutdownTimeout)
				})
			}
			g.Go(func() error {
				// Input exhausted or failed: stop the ops server too.
				defer cancel()
				if err := p.Emit(gctx, initialResults(c)...); err != nil {
					return err
				}
				return p.Run(gctx)
			})

			err = g.Wait()
			a.logger.Info("shutdown complete")
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", console.FormatJSON, "frame format: json or text")
	cmd.Flags().Float64Var(&target, "target", 0, "prediction year (default PREDICTION_YEAR or the session file)")
	cmd.Flags().BoolVar(&httpEnabled, "http", a.cfg.HTTPEnabled, "serve /healthz, /readyz and /metrics (HTTP_ENABLED)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", a.cfg.HTTPAddr, "ops server address (HTTP_ADDR)")
	return cmd
}

// initialResults wraps the current frames so they can be drawn before any
// adjustment arrives.
func initialResults(c *session.Controller) []session.Result {
	frames := c.Render()
	out := make([]session.Result, 0, len(frames))
	for _, f := range frames {
		out = append(out, session.Result{Frame: f})
	}
	return out
}
