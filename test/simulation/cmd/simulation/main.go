package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	gridmetrics "github.com/arloliu/boidgrid/internal/metrics"
	"github.com/arloliu/boidgrid/test/simulation/internal/config"
	"github.com/arloliu/boidgrid/test/simulation/internal/logging"
	"github.com/arloliu/boidgrid/test/simulation/internal/metrics"
	"github.com/arloliu/boidgrid/test/simulation/internal/runner"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (built-in defaults when empty)")
	ticks := flag.Uint64("ticks", 0, "Override simulation.ticks (0 keeps the configured stop point)")
	resume := flag.Bool("resume", false, "Seed agents from the latest checkpoint in checkpoint.path")
	flag.Parse()

	if err := run(*configPath, *ticks, *resume); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
}

func run(configPath string, ticks uint64, resume bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if ticks > 0 {
		cfg.Simulation.Ticks = ticks
	}

	runID := uuid.NewString()
	logger := logging.New(os.Stderr, cfg.Logging.Level, runID)
	cfg.Grid.ValidateWithWarnings(logger)

	if resume {
		latest, err := runner.FindLatestCheckpoint(cfg.Checkpoint.Path)
		if err != nil {
			return err
		}
		if latest == "" {
			return fmt.Errorf("no checkpoint found in %s", cfg.Checkpoint.Path)
		}
		cp, err := runner.LoadCheckpoint(latest)
		if err != nil {
			return err
		}
		cfg.Agents.Source = config.SourceFile
		cfg.Agents.Path = cp.AgentsPath(latest)
		logger.Info("resuming from checkpoint", "path", latest, "tick", cp.Tick, "previousRun", cp.RunID)
	}

	if cfg.Simulation.Ticks > 0 {
		logger.Info("simulation will stop", "ticks", cfg.Simulation.Ticks)
	} else {
		logger.Info("simulation will run until interrupted")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []runner.Option{runner.WithLogger(logger)}
	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServing := context.WithCancel(gctx)
	defer stopServing()

	if cfg.Metrics.Prometheus.Enabled {
		collector := metrics.NewCollector(nil)
		opts = append(opts,
			runner.WithCollector(collector),
			runner.WithLibraryMetrics(gridmetrics.NewPrometheus(nil, "boidgrid")),
		)

		addr := fmt.Sprintf(":%d", cfg.Metrics.Prometheus.Port)
		server := metrics.NewPrometheusServer(addr, nil, collector, logging.Component(logger, "metrics"))
		g.Go(func() error {
			return server.Start(serveCtx)
		})
	}

	r, err := runner.New(cfg, runID, opts...)
	if err != nil {
		return err
	}

	var summary *runner.Summary
	var runErr error
	g.Go(func() error {
		defer stopServing()
		summary, runErr = r.Run(gctx)
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}

		return nil
	})

	waitErr := g.Wait()
	if summary != nil {
		summary.PrintReport(os.Stdout, runErr)
	}
	if waitErr != nil {
		return waitErr
	}
	if errors.Is(runErr, context.Canceled) {
		logger.Info("simulation interrupted")
	}

	return nil
}
