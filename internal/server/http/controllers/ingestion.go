package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	"github.com/cezarfuhr/primoia-log-watcher/internal/runtime"
)

// IngestionController handles log submission and the caller-facing
// observability endpoints.
type IngestionController struct {
	rt *runtime.Runtime
}

// NewIngestionController creates a new ingestion controller.
func NewIngestionController(rt *runtime.Runtime) *IngestionController {
	return &IngestionController{rt: rt}
}

// RegisterRoutes registers the ingestion routes with the given mux.
func (c *IngestionController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/ingestion/logs/single", c.handleSingle)
	mux.HandleFunc("/api/v1/ingestion/logs/batch", c.handleBatch)
	mux.HandleFunc("/api/v1/ingestion/health", c.handleHealth)
	mux.HandleFunc("/api/v1/ingestion/stats", c.handleStats)
}

// handleSingle admits one log record from an authenticated service.
func (c *IngestionController) handleSingle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var rec contract.LogRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, err := c.rt.Coordinator().SubmitSingle(r.Context(), bearerToken(r), rec)
	if err != nil {
		writeSubmissionError(w, err)
		return
	}
	writeJSON(w, singleAckResp{
		Status:    "accepted",
		LogID:     ack.LogID,
		Message:   "log accepted for processing",
		Timestamp: ack.Timestamp,
	})
}

// handleBatch admits a whole batch atomically.
func (c *IngestionController) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var batch contract.LogBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, err := c.rt.Coordinator().SubmitBatch(r.Context(), bearerToken(r), batch)
	if err != nil {
		writeSubmissionError(w, err)
		return
	}
	writeJSON(w, batchAckResp{
		Status:    "accepted",
		BatchID:   ack.BatchID,
		LogIDs:    ack.LogIDs,
		TotalLogs: ack.TotalLogs,
		Message:   "batch accepted for processing",
		Timestamp: ack.Timestamp,
	})
}

// handleHealth reports the composite health of the ingestion path.
func (c *IngestionController) handleHealth(w http.ResponseWriter, r *http.Request) {
	rep := c.rt.Coordinator().Health()
	if !rep.Healthy() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(rep)
		return
	}
	writeJSON(w, rep)
}

// handleStats returns the authenticated caller's own service metrics.
func (c *IngestionController) handleStats(w http.ResponseWriter, r *http.Request) {
	ident, err := c.rt.Registry().Authenticate(bearerToken(r))
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	snap, ok := c.rt.Metrics().ServiceStats(ident.Name)
	if !ok {
		// No ingestion yet: an empty snapshot, not an error.
		writeJSON(w, map[string]any{
			"service_name": ident.Name,
			"total_logs":   0,
			"timestamp":    time.Now().UTC(),
		})
		return
	}
	writeJSON(w, snap)
}
