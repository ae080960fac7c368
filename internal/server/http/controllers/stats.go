package controllers

import (
	"net/http"

	"github.com/cezarfuhr/primoia-log-watcher/internal/runtime"
)

// maxTopServicesLimit bounds the top-services query.
const maxTopServicesLimit = 100

// StatsController serves the cross-service metrics endpoints.
type StatsController struct {
	rt *runtime.Runtime
}

// NewStatsController creates a new stats controller.
func NewStatsController(rt *runtime.Runtime) *StatsController {
	return &StatsController{rt: rt}
}

// RegisterRoutes registers the stats routes with the given mux.
func (c *StatsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/stats/global", c.handleGlobal)
	mux.HandleFunc("/api/v1/stats/top-services", c.handleTopServices)
}

// handleGlobal returns the aggregate snapshot across all services.
func (c *StatsController) handleGlobal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.rt.Metrics().GlobalStats())
}

// handleTopServices ranks services by log volume. limit defaults to 10
// and must be in [1, 100].
func (c *StatsController) handleTopServices(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 10)
	if limit < 1 || limit > maxTopServicesLimit {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	ranks := c.rt.Metrics().TopServices(limit)
	writeJSON(w, map[string]any{
		"top_services": ranks,
		"limit":        limit,
	})
}
