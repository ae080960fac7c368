package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	"github.com/cezarfuhr/primoia-log-watcher/internal/runtime"
)

// AdminController exposes registry CRUD and the queue/metrics
// maintenance operations. These routes carry no extra auth gate.
type AdminController struct {
	rt *runtime.Runtime
}

// NewAdminController creates a new admin controller.
func NewAdminController(rt *runtime.Runtime) *AdminController {
	return &AdminController{rt: rt}
}

// RegisterRoutes registers the admin routes with the given mux.
func (c *AdminController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/admin/services", c.handleServices)
	mux.HandleFunc("/api/v1/admin/services/", c.handleServiceByName)
	mux.HandleFunc("/api/v1/admin/queue/stats", c.handleQueueStats)
	mux.HandleFunc("/api/v1/admin/queue/retry-failed", c.handleRetryFailed)
	mux.HandleFunc("/api/v1/admin/queue/clear-failed", c.handleClearFailed)
	mux.HandleFunc("/api/v1/admin/metrics/cleanup", c.handleMetricsCleanup)
}

// handleServices lists registered services or registers a new one.
func (c *AdminController) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		services := c.rt.Registry().List()
		writeJSON(w, listServicesResp{Services: services, Total: len(services)})
	case http.MethodPost:
		var req addServiceReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ServiceName == "" || req.APIKey == "" {
			writeError(w, http.StatusBadRequest, "service_name and api_key are required")
			return
		}
		st := contract.ServiceType(req.ServiceType)
		if !st.Valid() {
			st = contract.ServiceOther
		}
		if err := c.rt.Registry().Register(req.ServiceName, st, req.APIKey, req.Permissions, req.RateLimit); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, map[string]string{
			"status":       "registered",
			"service_name": req.ServiceName,
		})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleServiceByName removes one registered service.
func (c *AdminController) handleServiceByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/admin/services/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !c.rt.Registry().Remove(name) {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}
	writeJSON(w, map[string]string{"status": "removed", "service_name": name})
}

// handleQueueStats returns the queue counter snapshot.
func (c *AdminController) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.rt.Queue().Stats())
}

// handleRetryFailed moves every dead-lettered task back to its lane.
func (c *AdminController) handleRetryFailed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	moved, err := c.rt.Queue().RetryFailed()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, opResultResp{
		Status:    "ok",
		Count:     moved,
		Message:   "failed tasks requeued",
		Timestamp: time.Now().UTC(),
	})
}

// handleClearFailed discards the dead-letter set.
func (c *AdminController) handleClearFailed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	dropped, err := c.rt.Queue().ClearFailed()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, opResultResp{
		Status:    "ok",
		Count:     dropped,
		Message:   "failed tasks discarded",
		Timestamp: time.Now().UTC(),
	})
}

// handleMetricsCleanup drops hour buckets older than ?days=N
// (default: the configured retention).
func (c *AdminController) handleMetricsCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	days := c.rt.Config().Metrics.RetentionDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}
	removed := c.rt.Metrics().ClearOld(days)
	writeJSON(w, opResultResp{
		Status:    "ok",
		Count:     removed,
		Message:   "stale metric buckets removed",
		Timestamp: time.Now().UTC(),
	})
}
