package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/vango-dev/store/internal/errors"
	"github.com/vango-dev/store/pkg/middleware"
	"github.com/vango-dev/store/pkg/reactive"
	"github.com/vango-dev/store/pkg/store"
)

// demoOptions is the resolved input of one demo run.
type demoOptions struct {
	scenario string
	steps    int
	app      string

	// registry is nil when metrics are disabled.
	registry  *prometheus.Registry
	namespace string

	logger *slog.Logger
	out    io.Writer
}

func demoCmd(c *cli) *cobra.Command {
	var (
		scenarioName string
		steps        int
		metrics      bool
		metricsAddr  string
		serve        bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a demo scenario and print every render",
		Long: `Run one of the built-in scenarios on the reactive runtime.

Each step performs store actions, flushes the runtime and prints the output
and render count of every mounted component. Components only re-render when
the slice of state they select changes.

Scenarios: ` + strings.Join(scenarioNames(), ", "),
		Example: `  storectl demo
  storectl demo --scenario todos --steps 4
  storectl demo --metrics --serve --metrics-addr :9464`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			flags := cmd.Flags()
			if flags.Changed("scenario") {
				cfg.Demo.Scenario = scenarioName
			}
			if flags.Changed("steps") {
				cfg.Demo.Steps = steps
			}
			if flags.Changed("metrics") {
				cfg.Metrics.Enabled = metrics
			}
			if flags.Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if serve {
				cfg.Metrics.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts := demoOptions{
				scenario:  cfg.Demo.Scenario,
				steps:     cfg.Demo.Steps,
				app:       cfg.Name,
				namespace: cfg.Metrics.Namespace,
				logger:    c.logger,
				out:       cmd.OutOrStdout(),
			}
			if cfg.Metrics.Enabled {
				opts.registry = prometheus.NewRegistry()
			}

			if err := runDemo(opts); err != nil {
				return err
			}

			if !serve {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(opts.out, "serving metrics on http://%s/metrics (Ctrl+C to stop)", cfg.Metrics.Addr)
			return serveMetrics(ctx, cfg.Metrics.Addr, newMetricsRouter(opts.registry), c.logger)
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "", "scenario to run ("+strings.Join(scenarioNames(), ", ")+")")
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "number of steps")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "record Prometheus metrics for the demo stores")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "listen address for /metrics")
	cmd.Flags().BoolVar(&serve, "serve", false, "keep serving /metrics after the demo finishes")

	return cmd
}

// runDemo runs one scenario and writes a frame per step to opts.out.
func runDemo(opts demoOptions) error {
	run, ok := scenarios[opts.scenario]
	if !ok {
		return errors.New("E301").
			WithDetail(fmt.Sprintf("unknown scenario %q", opts.scenario)).
			WithSuggestion("Use one of: " + strings.Join(scenarioNames(), ", "))
	}

	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.app != "" {
		logger = logger.With("app", opts.app)
	}

	mws := []store.Middleware{
		middleware.Logging(logger),
		middleware.OpenTelemetry(middleware.WithTracerName("storectl")),
	}
	if opts.registry != nil {
		metricOpts := []middleware.MetricsOption{
			middleware.WithRegistry(opts.registry),
			middleware.WithNamespace(opts.namespace),
		}
		if opts.app != "" {
			metricOpts = append(metricOpts, middleware.WithConstLabels(prometheus.Labels{"app": opts.app}))
		}
		mws = append(mws, middleware.Prometheus(metricOpts...))
	}

	rt := reactive.New(reactive.WithLogger(logger))
	defer rt.Dispose()

	views, step := run(rt, []store.Option{
		store.WithLogger(logger),
		store.WithContext(context.Background()),
		store.WithMiddleware(mws...),
	})

	writeFrame(opts.out, 0, views)
	for i := 0; i < opts.steps; i++ {
		step(i)
		if err := rt.Flush(); err != nil {
			return err
		}
		writeFrame(opts.out, i+1, views)
	}

	logger.Info("demo finished", "scenario", opts.scenario, "steps", opts.steps)
	return nil
}

func writeFrame(w io.Writer, step int, views []*reactive.Component) {
	parts := make([]string, 0, len(views))
	for _, v := range views {
		parts = append(parts, fmt.Sprintf("%s (renders=%d)", v.Output(), v.Renders()))
	}
	fmt.Fprintf(w, "step %d: %s\n", step, strings.Join(parts, " | "))
}
