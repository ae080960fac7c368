package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	"github.com/cezarfuhr/primoia-log-watcher/internal/ingest"
	"github.com/cezarfuhr/primoia-log-watcher/internal/registry"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// writeSubmissionError maps a coordinator failure to its response code.
func writeSubmissionError(w http.ResponseWriter, err error) {
	var verr *contract.ValidationError
	switch {
	case registry.IsAuthError(err), errors.Is(err, ingest.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// bearerToken extracts the opaque credential from the Authorization
// header. Empty when absent or not a Bearer scheme.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

// parseLimit parses a limit query value. Returns fallback for an empty
// string and -1 for a malformed one.
func parseLimit(limitStr string, fallback int) int {
	if limitStr == "" {
		return fallback
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return -1
	}
	return limit
}
