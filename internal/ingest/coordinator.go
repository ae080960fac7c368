package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	"github.com/cezarfuhr/primoia-log-watcher/internal/metrics"
	"github.com/cezarfuhr/primoia-log-watcher/internal/queue"
	"github.com/cezarfuhr/primoia-log-watcher/internal/registry"
	"github.com/cezarfuhr/primoia-log-watcher/pkg/id"
	"github.com/cezarfuhr/primoia-log-watcher/pkg/log"
)

// ErrPermissionDenied rejects an authenticated service that lacks
// ingestion authorization.
var ErrPermissionDenied = errors.New("service is not authorized to send logs")

// EnqueueError reports that a payload could not be handed to the queue
// after the retry attempt. It maps to a server-side failure.
type EnqueueError struct {
	Err error
}

func (e *EnqueueError) Error() string {
	return fmt.Sprintf("enqueue failed: %v", e.Err)
}

func (e *EnqueueError) Unwrap() error { return e.Err }

// enqueueRetryDelay separates the two enqueue attempts.
const enqueueRetryDelay = 50 * time.Millisecond

// SingleAck acknowledges one admitted record.
type SingleAck struct {
	LogID     string    `json:"log_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BatchAck acknowledges one admitted batch.
type BatchAck struct {
	BatchID   string    `json:"batch_id"`
	LogIDs    []string  `json:"log_ids"`
	TotalLogs int       `json:"total_logs"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthReport is the composite health of the ingestion dependencies.
type HealthReport struct {
	Status    string          `json:"status"`
	Registry  registry.Status `json:"auth"`
	Queue     queue.Status    `json:"queue"`
	Timestamp time.Time       `json:"timestamp"`
}

// Healthy reports whether every dependency is serving.
func (h HealthReport) Healthy() bool { return h.Status == "healthy" }

// Coordinator drives a submission through authentication, authorization,
// consistency checks, identifier assignment, and enqueue.
type Coordinator struct {
	registry *registry.Registry
	queue    *queue.Queue
	metrics  *metrics.Aggregator
	runner   *Runner
	ids      *id.Generator
	logger   log.Logger
}

// New wires a coordinator over its three collaborators.
func New(reg *registry.Registry, q *queue.Queue, agg *metrics.Aggregator, logger log.Logger) *Coordinator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Coordinator{
		registry: reg,
		queue:    q,
		metrics:  agg,
		runner:   NewRunner(logger),
		ids:      id.NewGenerator(),
		logger:   logger.WithComponent("ingest"),
	}
}

// admit runs the gates shared by single and batch submission and returns
// the authenticated identity.
func (c *Coordinator) admit(rawKey, declaredName string) (registry.Identity, error) {
	ident, err := c.registry.Authenticate(rawKey)
	if err != nil {
		return registry.Identity{}, err
	}
	if !c.registry.IsAuthorized(ident.Name) {
		return registry.Identity{}, ErrPermissionDenied
	}
	if declaredName != ident.Name {
		return registry.Identity{}, &contract.ValidationError{
			Field:  "service_name",
			Reason: fmt.Sprintf("payload declares %q but credential belongs to %q", declaredName, ident.Name),
		}
	}
	return ident, nil
}

// SubmitSingle admits one record and enqueues it for processing.
func (c *Coordinator) SubmitSingle(ctx context.Context, rawKey string, rec contract.LogRecord) (SingleAck, error) {
	ident, err := c.admit(rawKey, rec.ServiceName)
	if err != nil {
		return SingleAck{}, err
	}

	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return SingleAck{}, err
	}

	logID := "log-" + c.ids.NextString()
	item := queue.NewItem(logID, ident.Name, "", rec)

	if err := c.enqueue(ctx, func() (string, error) {
		return c.queue.EnqueueSingle(item)
	}); err != nil {
		return SingleAck{}, err
	}

	size := rec.SerializedSize()
	c.runner.Go("record-ingestion", func() {
		c.metrics.RecordIngestion(ident.Name, rec.ServiceType, rec.Level, size)
	})

	c.logger.Info("log admitted",
		log.Str("service", ident.Name),
		log.Str("log_id", logID),
		log.Str("level", string(rec.Level)))
	return SingleAck{LogID: logID, Timestamp: time.Now().UTC()}, nil
}

// SubmitBatch admits a whole batch atomically. Any per-record
// inconsistency rejects the batch before anything is enqueued.
func (c *Coordinator) SubmitBatch(ctx context.Context, rawKey string, batch contract.LogBatch) (BatchAck, error) {
	ident, err := c.admit(rawKey, batch.ServiceName)
	if err != nil {
		return BatchAck{}, err
	}

	batch.Normalize()
	if err := batch.Validate(); err != nil {
		return BatchAck{}, err
	}
	for i := range batch.Logs {
		if batch.Logs[i].ServiceName != batch.ServiceName {
			return BatchAck{}, &contract.ValidationError{
				Field:  "logs",
				Reason: fmt.Sprintf("record %d declares %q but batch belongs to %q", i, batch.Logs[i].ServiceName, batch.ServiceName),
			}
		}
	}

	batchID := batch.BatchID
	if batchID == "" {
		batchID = "batch-" + c.ids.NextString()
	}

	totalBytes := 0
	logIDs := make([]string, len(batch.Logs))
	items := make([]queue.Item, len(batch.Logs))
	for i := range batch.Logs {
		logIDs[i] = "log-" + c.ids.NextString()
		items[i] = queue.NewItem(logIDs[i], ident.Name, batchID, batch.Logs[i])
		totalBytes += batch.Logs[i].SerializedSize()
	}

	if err := c.enqueue(ctx, func() (string, error) {
		return c.queue.EnqueueBatch(queue.BatchPayload{BatchID: batchID, Items: items})
	}); err != nil {
		return BatchAck{}, err
	}

	size := len(batch.Logs)
	c.runner.Go("record-batch-ingestion", func() {
		c.metrics.RecordBatchIngestion(ident.Name, batch.ServiceType, size, totalBytes)
	})

	c.logger.Info("batch admitted",
		log.Str("service", ident.Name),
		log.Str("batch_id", batchID),
		log.Int("total_logs", size))
	return BatchAck{
		BatchID:   batchID,
		LogIDs:    logIDs,
		TotalLogs: size,
		Timestamp: time.Now().UTC(),
	}, nil
}

// enqueue attempts the handoff twice. A failure of both attempts is
// surfaced to the caller and counted as a processing error.
func (c *Coordinator) enqueue(ctx context.Context, attempt func() (string, error)) error {
	_, err := attempt()
	if err == nil {
		return nil
	}

	c.logger.Warn("enqueue attempt failed, retrying", log.Err(err))
	select {
	case <-ctx.Done():
		return &EnqueueError{Err: ctx.Err()}
	case <-time.After(enqueueRetryDelay):
	}

	if _, err = attempt(); err == nil {
		return nil
	}

	c.runner.Go("record-enqueue-failure", func() {
		c.metrics.RecordProcessingError("enqueue_failure", err.Error())
	})
	c.logger.Error("enqueue failed after retry", log.Err(err))
	return &EnqueueError{Err: err}
}

// Health reports the composite state of the registry and the queue.
func (c *Coordinator) Health() HealthReport {
	rep := HealthReport{
		Registry:  c.registry.Status(),
		Queue:     c.queue.Status(),
		Timestamp: time.Now().UTC(),
	}
	rep.Status = "healthy"
	if rep.Registry.Status != "healthy" || rep.Queue.Status != "healthy" {
		rep.Status = "degraded"
	}
	return rep
}

// Drain waits for every deferred metrics task to finish. Called on
// shutdown so accumulated counters reflect all acknowledged requests.
func (c *Coordinator) Drain() {
	c.runner.Wait()
}
