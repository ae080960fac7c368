package queue

import (
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
)

// Kind discriminates the two task payload shapes.
type Kind string

// Task kinds; each kind has its own lane.
const (
	KindSingle Kind = "single"
	KindBatch  Kind = "batch"
)

// Item is one admitted log record, carrying the identifiers assigned at
// ingestion time.
type Item struct {
	LogID       string             `json:"log_id"`
	ServiceName string             `json:"service_name"`
	Record      contract.LogRecord `json:"record"`
	BatchID     string             `json:"batch_id,omitempty"`
	ReceivedAt  time.Time          `json:"received_at"`
}

// BatchPayload carries a whole admitted batch as one unit of work.
type BatchPayload struct {
	BatchID string `json:"batch_id"`
	Items   []Item `json:"items"`
	Size    int    `json:"size"`
}

// Task is the unit held by a lane. Exactly one of Single or Batch is set,
// matching Kind.
type Task struct {
	ID         string        `json:"task_id"`
	Kind       Kind          `json:"kind"`
	Single     *Item         `json:"single,omitempty"`
	Batch      *BatchPayload `json:"batch,omitempty"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
	RetryCount int           `json:"retry_count"`
	MaxRetries int           `json:"max_retries"`

	// LastError holds the final failure description once dead-lettered.
	LastError string `json:"last_error,omitempty"`
}

// Stats is the queue's counter snapshot.
type Stats struct {
	SingleDepth     int       `json:"log_processing_queue_size"`
	BatchDepth      int       `json:"batch_processing_queue_size"`
	DeadLetterDepth int       `json:"failed_messages_size"`
	TotalProcessed  uint64    `json:"total_messages_processed"`
	TotalFailed     uint64    `json:"total_messages_failed"`
	Timestamp       time.Time `json:"timestamp"`
}

// LaneStatus describes one lane in a health report.
type LaneStatus struct {
	Size   int    `json:"size"`
	Status string `json:"status"`
}

// Status is the queue's health report.
type Status struct {
	Status string                `json:"status"`
	Lanes  map[string]LaneStatus `json:"queues"`
	Totals struct {
		Processed uint64 `json:"total_processed"`
		Failed    uint64 `json:"total_failed"`
	} `json:"metrics"`
	Timestamp time.Time `json:"timestamp"`
}
