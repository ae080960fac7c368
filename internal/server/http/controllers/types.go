package controllers

import (
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/registry"
)

// Common request/response types for HTTP controllers

// singleAckResp acknowledges one admitted log record.
type singleAckResp struct {
	Status    string    `json:"status"`
	LogID     string    `json:"log_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// batchAckResp acknowledges one admitted batch.
type batchAckResp struct {
	Status    string    `json:"status"`
	BatchID   string    `json:"batch_id"`
	LogIDs    []string  `json:"log_ids"`
	TotalLogs int       `json:"total_logs"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// addServiceReq registers a new service identity.
type addServiceReq struct {
	ServiceName string   `json:"service_name"`
	ServiceType string   `json:"service_type"`
	APIKey      string   `json:"api_key"`
	Permissions []string `json:"permissions"`
	RateLimit   int      `json:"rate_limit"`
}

// listServicesResp wraps the admin listing.
type listServicesResp struct {
	Services []registry.Summary `json:"services"`
	Total    int                `json:"total"`
}

// opResultResp reports a count-producing admin operation.
type opResultResp struct {
	Status    string    `json:"status"`
	Count     int       `json:"count"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// processInfoResp is the root endpoint's shape.
type processInfoResp struct {
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
