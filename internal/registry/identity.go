package registry

import (
	"errors"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
)

// Authentication failures, in the order the gates run.
var (
	ErrMissingCredential = errors.New("api key is required")
	ErrInvalidCredential = errors.New("invalid api key")
	ErrServiceNotFound   = errors.New("service not found")
	ErrServiceInactive   = errors.New("service is inactive")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// IsAuthError reports whether err is one of the authentication failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrServiceNotFound) ||
		errors.Is(err, ErrServiceInactive) ||
		errors.Is(err, ErrRateLimitExceeded)
}

// identity is the stored record for a registered service. It never leaves
// the package; callers receive Identity projections.
type identity struct {
	name        string
	serviceType contract.ServiceType
	keyHash     string
	createdAt   time.Time
	active      bool
	permissions []string
	rateLimit   int
}

// Identity is the read-only projection returned by Authenticate. It carries
// no credential material.
type Identity struct {
	Name        string               `json:"service_name"`
	Type        contract.ServiceType `json:"service_type"`
	Permissions []string             `json:"permissions"`
	RateLimit   int                  `json:"rate_limit"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Summary is the listing shape for administrative queries.
type Summary struct {
	Name        string               `json:"service_name"`
	Type        contract.ServiceType `json:"service_type"`
	Active      bool                 `json:"is_active"`
	Permissions []string             `json:"permissions"`
	RateLimit   int                  `json:"rate_limit"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Status is the registry's health report.
type Status struct {
	Status         string    `json:"status"`
	TotalServices  int       `json:"total_services"`
	ActiveServices int       `json:"active_services"`
	Timestamp      time.Time `json:"timestamp"`
}
