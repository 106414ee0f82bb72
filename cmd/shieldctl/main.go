package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/industriverse/industriverse-sub012/internal"
	"github.com/industriverse/industriverse-sub012/internal/config"
	"github.com/industriverse/industriverse-sub012/internal/metric"
	"github.com/industriverse/industriverse-sub012/internal/pipeline"
)

// app holds what every subcommand needs once flags and .env are resolved
type app struct {
	config   *config.Config
	logger   *internal.Logger
	metrics  *metric.Metrics
	pipeline *pipeline.Pipeline
	server   *http.Server
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFile     string
		logLevel    string
		metricsAddr string
		templates   string
		a           = &app{}
	)

	root := &cobra.Command{
		Use:   "shieldctl",
		Short: "Physics-signature anomaly detection for telemetry streams",
		Long: `shieldctl extracts physics signatures from telemetry, scores them with
seven anomaly detectors and fuses the verdicts into a threat index (ICI).

Configuration is read from the environment (SHIELD_*, LOG_LEVEL) after an
optional .env file. Flags override both.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(envFile, logLevel, metricsAddr, templates)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: error|warn|info|debug|trace")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	root.PersistentFlags().StringVar(&templates, "templates", "", "YAML domain template table")

	root.AddCommand(
		newAnalyzeCmd(a),
		newTransitionCmd(a),
		newHashCmd(a),
		newFixturesCmd(),
		newTemplatesCmd(),
		newDemoCmd(a),
	)
	return root
}

func (a *app) init(envFile, logLevel, metricsAddr, templates string) error {
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		level, err := internal.ParseLogLevel(logLevel)
		if err != nil {
			return err
		}
		cfg.Log.Level = level
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	if templates != "" {
		cfg.Classifier.TemplatesFile = templates
	}

	a.config = cfg
	a.logger = internal.NewLoggerTo(os.Stderr, cfg.Log.Level)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metric.New(reg)

	a.pipeline, err = pipeline.FromConfig(cfg, a.metrics, a.logger)
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		a.server = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.logger.Error("metrics server: %v", err)
			}
		}()
		a.logger.Info("serving metrics on %s/metrics", cfg.Metrics.Addr)
	}
	return nil
}

func (a *app) close() error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}
