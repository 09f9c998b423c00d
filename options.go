package boidgrid

// Option configures a Coordinator with optional dependencies.
type Option func(*coordinatorOptions)

// coordinatorOptions holds optional Coordinator configuration.
type coordinatorOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
	workers int
}

// WithHooks sets tick event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewCoordinator
//
// Example:
//
//	hooks := &boidgrid.Hooks{
//	    OnBoundsChanged: func(ctx context.Context, change boidgrid.BoundsChange) error {
//	        log.Printf("partition %d released space to %v", change.OverloadedID, change.Affected)
//	        return nil
//	    },
//	}
//	c, err := boidgrid.NewCoordinator(&cfg, src, strat, behavior, boidgrid.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *coordinatorOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewCoordinator
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *coordinatorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewCoordinator
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	c, err := boidgrid.NewCoordinator(&cfg, src, strat, behavior, boidgrid.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *coordinatorOptions) {
		o.logger = logger
	}
}

// WithWorkers overrides Config.Workers, the number of partitions computed in parallel.
//
// Parameters:
//   - n: Worker count (0 selects runtime.GOMAXPROCS(0))
//
// Returns:
//   - Option: Functional option for NewCoordinator
func WithWorkers(n int) Option {
	return func(o *coordinatorOptions) {
		o.workers = n
	}
}
