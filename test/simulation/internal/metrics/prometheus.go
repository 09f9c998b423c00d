package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arloliu/boidgrid/types"
)

// PrometheusServer serves Prometheus metrics via HTTP.
type PrometheusServer struct {
	addr      string
	gatherer  prometheus.Gatherer
	collector *Collector
	logger    types.Logger
	server    *http.Server
}

// NewPrometheusServer creates a new Prometheus metrics server.
//
// Parameters:
//   - addr: Address to listen on (e.g., ":9090")
//   - gatherer: Registry to expose (prometheus.DefaultGatherer if nil)
//   - collector: Runner collector that receives system metrics (optional)
//   - logger: Logger for server lifecycle events
//
// Returns:
//   - *PrometheusServer: Initialized server
func NewPrometheusServer(addr string, gatherer prometheus.Gatherer, collector *Collector, logger types.Logger) *PrometheusServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &PrometheusServer{
		addr:      addr,
		gatherer:  gatherer,
		collector: collector,
		logger:    logger,
	}
}

// Handler returns the HTTP handler serving /metrics and /health.
func (s *PrometheusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", s.healthHandler)

	return mux
}

// Start serves metrics until ctx is cancelled.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Listen error, or the shutdown error after cancellation
func (s *PrometheusServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.collector != nil {
		go s.collectSystemMetrics(ctx)
	}

	s.logger.Info("prometheus server started", "addr", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("prometheus server failed", "error", err)
		}
	}()

	<-ctx.Done()

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server.
func (s *PrometheusServer) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("prometheus server stopping")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// healthHandler handles health check requests.
func (s *PrometheusServer) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK\n")
}

// collectSystemMetrics periodically samples goroutine and heap usage.
func (s *PrometheusServer) collectSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			SampleSystem(s.collector)
		}
	}
}

// SampleSystem records the current goroutine count and heap usage on c.
func SampleSystem(c *Collector) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	c.UpdateSystemMetrics(runtime.NumGoroutine(), m.Alloc)
}
