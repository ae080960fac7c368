// Package runtime wires the registry, queue, metrics, and coordinator
// into a single-process instance and owns their lifecycle.
package runtime

import (
	"context"
	"errors"
	"sync"
	"time"

	cfgpkg "github.com/cezarfuhr/primoia-log-watcher/internal/config"
	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	"github.com/cezarfuhr/primoia-log-watcher/internal/ingest"
	"github.com/cezarfuhr/primoia-log-watcher/internal/metrics"
	"github.com/cezarfuhr/primoia-log-watcher/internal/queue"
	"github.com/cezarfuhr/primoia-log-watcher/internal/registry"
	"github.com/cezarfuhr/primoia-log-watcher/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger log.Logger
}

// Runtime owns the four core components plus the periodic metrics
// cleaner goroutine.
type Runtime struct {
	config cfgpkg.Config
	logger log.Logger

	registry    *registry.Registry
	queue       *queue.Queue
	metrics     *metrics.Aggregator
	coordinator *ingest.Coordinator

	cleanerStop chan struct{}
	cleanerDone chan struct{}
	closeOnce   sync.Once
}

// Open builds the component graph, seeds the bootstrap services, and
// starts the metrics cleaner.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	reg := registry.New(logger)
	q := queue.New(opts.Config.Queue.MaxRetries, logger)
	agg := metrics.New(logger)

	rt := &Runtime{
		config:      opts.Config,
		logger:      logger,
		registry:    reg,
		queue:       q,
		metrics:     agg,
		coordinator: ingest.New(reg, q, agg, logger),
		cleanerStop: make(chan struct{}),
		cleanerDone: make(chan struct{}),
	}

	for _, seed := range opts.Config.BootstrapServices {
		if err := reg.Register(seed.Name, contract.ServiceType(seed.Type), seed.APIKey, seed.Permissions, seed.RateLimit); err != nil {
			return nil, err
		}
	}
	logger.Info("bootstrap services registered",
		log.Int("count", len(opts.Config.BootstrapServices)))

	go rt.runCleaner()
	return rt, nil
}

// runCleaner drops stale metric hour buckets on the configured
// interval until Close.
func (r *Runtime) runCleaner() {
	defer close(r.cleanerDone)

	interval := time.Duration(r.config.Metrics.CleanupIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("metrics cleaner started",
		log.Duration("interval", interval),
		log.Int("retention_days", r.config.Metrics.RetentionDays))

	for {
		select {
		case <-r.cleanerStop:
			return
		case <-ticker.C:
			r.metrics.ClearOld(r.config.Metrics.RetentionDays)
		}
	}
}

// Close stops the cleaner, closes the queue, and waits for deferred
// metrics tasks. Close is idempotent.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		close(r.cleanerStop)
		<-r.cleanerDone
		r.queue.Close()
		r.coordinator.Drain()
		r.logger.Info("runtime closed")
	})
	return nil
}

// CheckHealth reports whether the instance can serve requests.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rep := r.coordinator.Health(); !rep.Healthy() {
		return errors.New("ingestion dependencies degraded: " + rep.Status)
	}
	return nil
}

// Registry returns the credential registry.
func (r *Runtime) Registry() *registry.Registry { return r.registry }

// Queue returns the work queue.
func (r *Runtime) Queue() *queue.Queue { return r.queue }

// Metrics returns the metrics aggregator.
func (r *Runtime) Metrics() *metrics.Aggregator { return r.metrics }

// Coordinator returns the ingestion coordinator.
func (r *Runtime) Coordinator() *ingest.Coordinator { return r.coordinator }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the process logger.
func (r *Runtime) Logger() log.Logger { return r.logger }
