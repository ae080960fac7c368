package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	"github.com/cezarfuhr/primoia-log-watcher/pkg/id"
	"github.com/cezarfuhr/primoia-log-watcher/pkg/log"
)

// ErrUnavailable is returned for any operation on a closed queue.
var ErrUnavailable = errors.New("queue: unavailable")

// Queue holds the two in-memory FIFO lanes plus the dead-letter set.
// All state is guarded by a single mutex; operations are short enough
// that finer locking buys nothing.
type Queue struct {
	mu sync.Mutex

	single []*Task
	batch  []*Task
	dead   []*Task

	maxRetries int
	closed     bool

	processed uint64
	failed    uint64

	ids    *id.Generator
	logger log.Logger
}

// New creates an empty queue whose tasks give up after maxRetries
// processing attempts. maxRetries below 1 falls back to 3.
func New(maxRetries int, logger log.Logger) *Queue {
	if maxRetries < 1 {
		maxRetries = 3
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Queue{
		maxRetries: maxRetries,
		ids:        id.NewGenerator(),
		logger:     logger.WithComponent("queue"),
	}
}

// EnqueueSingle appends one record task to the single lane and returns
// the assigned task ID.
func (q *Queue) EnqueueSingle(item Item) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return "", ErrUnavailable
	}

	t := &Task{
		ID:         "single-" + q.ids.NextString(),
		Kind:       KindSingle,
		Single:     &item,
		EnqueuedAt: time.Now().UTC(),
		MaxRetries: q.maxRetries,
	}
	q.single = append(q.single, t)

	q.logger.Debug("task enqueued",
		log.Str("task_id", t.ID),
		log.Str("lane", string(KindSingle)),
		log.Int("depth", len(q.single)))
	return t.ID, nil
}

// EnqueueBatch appends one batch task to the batch lane and returns the
// assigned task ID.
func (q *Queue) EnqueueBatch(payload BatchPayload) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return "", ErrUnavailable
	}

	payload.Size = len(payload.Items)
	t := &Task{
		ID:         "batch-" + q.ids.NextString(),
		Kind:       KindBatch,
		Batch:      &payload,
		EnqueuedAt: time.Now().UTC(),
		MaxRetries: q.maxRetries,
	}
	q.batch = append(q.batch, t)

	q.logger.Debug("task enqueued",
		log.Str("task_id", t.ID),
		log.Str("lane", string(KindBatch)),
		log.Int("size", payload.Size),
		log.Int("depth", len(q.batch)))
	return t.ID, nil
}

// DequeueSingle removes and returns the oldest single-lane task, or nil
// when the lane is empty.
func (q *Queue) DequeueSingle() (*Task, error) {
	return q.dequeue(&q.single)
}

// DequeueBatch removes and returns the oldest batch-lane task, or nil
// when the lane is empty.
func (q *Queue) DequeueBatch() (*Task, error) {
	return q.dequeue(&q.batch)
}

func (q *Queue) dequeue(lane *[]*Task) (*Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrUnavailable
	}
	if len(*lane) == 0 {
		return nil, nil
	}
	t := (*lane)[0]
	*lane = (*lane)[1:]
	return t, nil
}

// MarkProcessed records a successful completion of a dequeued task.
func (q *Queue) MarkProcessed(t *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrUnavailable
	}
	q.processed++
	return nil
}

// MarkFailed records a failed attempt. Below the retry ceiling the task
// goes back to the tail of its lane; at the ceiling it moves to the
// dead-letter set and the failure counter advances.
func (q *Queue) MarkFailed(t *Task, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrUnavailable
	}

	t.RetryCount++
	if cause != nil {
		t.LastError = cause.Error()
	}

	if t.RetryCount < t.MaxRetries {
		switch t.Kind {
		case KindBatch:
			q.batch = append(q.batch, t)
		default:
			q.single = append(q.single, t)
		}
		q.logger.Warn("task requeued",
			log.Str("task_id", t.ID),
			log.Int("retry_count", t.RetryCount),
			log.Int("max_retries", t.MaxRetries))
		return nil
	}

	q.dead = append(q.dead, t)
	q.failed++
	q.logger.Error("task dead-lettered",
		log.Str("task_id", t.ID),
		log.Int("retry_count", t.RetryCount),
		log.Str("last_error", t.LastError))
	return nil
}

// RetryFailed drains the dead-letter set back into the lanes with retry
// counters reset to zero. It returns the number of tasks moved.
func (q *Queue) RetryFailed() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0, ErrUnavailable
	}

	moved := len(q.dead)
	for _, t := range q.dead {
		t.RetryCount = 0
		t.LastError = ""
		switch t.Kind {
		case KindBatch:
			q.batch = append(q.batch, t)
		default:
			q.single = append(q.single, t)
		}
	}
	q.dead = nil

	if moved > 0 {
		q.logger.Info("dead-letter tasks requeued", log.Int("count", moved))
	}
	return moved, nil
}

// ClearFailed discards the dead-letter set permanently and returns the
// number of tasks dropped.
func (q *Queue) ClearFailed() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0, ErrUnavailable
	}

	dropped := len(q.dead)
	q.dead = nil
	if dropped > 0 {
		q.logger.Info("dead-letter tasks cleared", log.Int("count", dropped))
	}
	return dropped, nil
}

// RecordCount reports how many log records a task carries.
func RecordCount(t *Task) int {
	if t == nil {
		return 0
	}
	if t.Kind == KindBatch && t.Batch != nil {
		return len(t.Batch.Items)
	}
	return 1
}

// Stats returns a point-in-time counter snapshot.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		SingleDepth:     len(q.single),
		BatchDepth:      len(q.batch),
		DeadLetterDepth: len(q.dead),
		TotalProcessed:  q.processed,
		TotalFailed:     q.failed,
		Timestamp:       time.Now().UTC(),
	}
}

// Status reports lane depths and counters for health checks.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	st := Status{
		Status: "healthy",
		Lanes: map[string]LaneStatus{
			"log_processing": {Size: len(q.single), Status: "active"},
			"batch_processing": {
				Size:   len(q.batch),
				Status: "active",
			},
			"failed_messages": {Size: len(q.dead), Status: "holding"},
		},
		Timestamp: time.Now().UTC(),
	}
	if q.closed {
		st.Status = "unavailable"
	}
	st.Totals.Processed = q.processed
	st.Totals.Failed = q.failed
	return st
}

// Close marks the queue unavailable. Further operations return
// ErrUnavailable. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.logger.Info("queue closed",
		log.Int("pending_single", len(q.single)),
		log.Int("pending_batch", len(q.batch)),
		log.Int("dead_letter", len(q.dead)))
}

// NewItem builds an Item for one admitted record.
func NewItem(logID, serviceName, batchID string, rec contract.LogRecord) Item {
	return Item{
		LogID:       logID,
		ServiceName: serviceName,
		Record:      rec,
		BatchID:     batchID,
		ReceivedAt:  time.Now().UTC(),
	}
}

// String implements fmt.Stringer for debug logging.
func (t *Task) String() string {
	return fmt.Sprintf("%s(kind=%s retries=%d/%d)", t.ID, t.Kind, t.RetryCount, t.MaxRetries)
}
