package metrics

import (
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
)

// ServiceSnapshot is a point-in-time read of one service's counters.
type ServiceSnapshot struct {
	ServiceName    string               `json:"service_name"`
	ServiceType    contract.ServiceType `json:"service_type"`
	TotalLogs      uint64               `json:"total_logs"`
	LogsByLevel    map[string]uint64    `json:"logs_by_level"`
	LogsLast24h    map[string]uint64    `json:"logs_last_24h"`
	TotalBytes     uint64               `json:"total_size_bytes"`
	FirstIngestion time.Time            `json:"first_ingestion"`
	LastIngestion  time.Time            `json:"last_ingestion"`
	LogsPerHour    float64              `json:"ingestion_rate_per_hour"`
}

// ProcessingSnapshot summarizes the downstream processing counters.
type ProcessingSnapshot struct {
	TotalProcessed uint64            `json:"total_processed"`
	TotalFailed    uint64            `json:"total_failed"`
	ErrorsByKind   map[string]uint64 `json:"errors_by_type"`
	MinLatencyMs   float64           `json:"min_latency_ms"`
	MaxLatencyMs   float64           `json:"max_latency_ms"`
	AvgLatencyMs   float64           `json:"avg_latency_ms"`
	SuccessRate    float64           `json:"success_rate_percent"`
}

// GlobalSnapshot aggregates across every known service.
type GlobalSnapshot struct {
	TotalLogs           uint64             `json:"total_logs"`
	TotalServices       int                `json:"total_services"`
	TotalBytes          uint64             `json:"total_size_bytes"`
	LevelDistribution   map[string]uint64  `json:"level_distribution"`
	ServiceDistribution map[string]uint64  `json:"service_distribution"`
	Processing          ProcessingSnapshot `json:"processing"`
	Timestamp           time.Time          `json:"timestamp"`
}

// ServiceRank is one entry of a top-services listing.
type ServiceRank struct {
	ServiceName string               `json:"service_name"`
	ServiceType contract.ServiceType `json:"service_type"`
	TotalLogs   uint64               `json:"total_logs"`
}
