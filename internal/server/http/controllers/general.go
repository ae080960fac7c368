package controllers

import (
	"net/http"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/runtime"
)

// Version is the reported service version.
const Version = "1.0.0"

// GeneralController handles the process-level endpoints.
type GeneralController struct {
	rt *runtime.Runtime
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

// RegisterRoutes registers the liveness and info routes.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", c.handleRoot)
	mux.HandleFunc("/health", c.handleHealth)
}

// handleRoot returns process identification for discovery probes.
func (c *GeneralController) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, processInfoResp{
		Service:   "log-watcher",
		Version:   Version,
		Status:    "running",
		Timestamp: time.Now().UTC(),
	})
}

// handleHealth returns 200 when the runtime can serve, 503 otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "healthy", "version": Version})
}
