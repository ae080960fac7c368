package contract

import "time"

// MaxBatchRecords bounds the number of records in one batch. Exactly
// MaxBatchRecords is accepted.
const MaxBatchRecords = 1000

// LogBatch is the bulk submission envelope. Every contained record must
// belong to the batch's declared service; the coordinator enforces that
// invariant atomically against the authenticated identity.
type LogBatch struct {
	BatchID           string      `json:"batch_id"`
	ServiceName       string      `json:"service_name"`
	ServiceType       ServiceType `json:"service_type"`
	ServiceVersion    string      `json:"service_version"`
	ServiceInstanceID string      `json:"service_instance_id"`

	Logs []LogRecord `json:"logs"`

	Timestamp time.Time `json:"timestamp"`
}

// Normalize fills derivable fields on the batch and its records.
func (b *LogBatch) Normalize() {
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now().UTC()
	} else {
		b.Timestamp = b.Timestamp.UTC()
	}
	for i := range b.Logs {
		b.Logs[i].Normalize()
	}
}

// Validate checks the envelope and every contained record. A batch is
// rejected wholesale on the first violation.
func (b *LogBatch) Validate() error {
	if b.ServiceName == "" {
		return invalid("service_name", "required")
	}
	if !b.ServiceType.Valid() {
		return invalid("service_type", "unknown service type %q", string(b.ServiceType))
	}
	if len(b.Logs) == 0 {
		return invalid("logs", "batch is empty")
	}
	if len(b.Logs) > MaxBatchRecords {
		return invalid("logs", "too many records: %d (max %d)", len(b.Logs), MaxBatchRecords)
	}
	for i := range b.Logs {
		if err := b.Logs[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
