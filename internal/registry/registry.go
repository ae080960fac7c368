package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	logpkg "github.com/cezarfuhr/primoia-log-watcher/pkg/log"
)

// Registry is the credential store for authorized services.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*identity // service name -> identity
	byHash   map[string]string    // api key hash -> service name
	logger   logpkg.Logger
}

// New creates an empty registry.
func New(logger logpkg.Logger) *Registry {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	return &Registry{
		services: make(map[string]*identity),
		byHash:   make(map[string]string),
		logger:   logger.WithComponent("registry"),
	}
}

// hashKey derives the stored digest for an API key. The digest doubles as
// the authentication index, so it must be deterministic.
func hashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// Register stores a service identity under name and indexes its credential.
// Registering the same name or the same raw key again overwrites the
// previous entry: last registration wins.
func (r *Registry) Register(name string, serviceType contract.ServiceType, rawKey string, permissions []string, rateLimit int) error {
	if name == "" {
		return ErrServiceNotFound
	}
	if rawKey == "" {
		return ErrMissingCredential
	}
	if permissions == nil {
		permissions = []string{"send_logs", "read_stats"}
	}

	hash := hashKey(rawKey)
	r.mu.Lock()
	// A re-registration under a new key must not leave the old key valid.
	if prev, ok := r.services[name]; ok {
		delete(r.byHash, prev.keyHash)
	}
	r.services[name] = &identity{
		name:        name,
		serviceType: serviceType,
		keyHash:     hash,
		createdAt:   time.Now().UTC(),
		active:      true,
		permissions: append([]string(nil), permissions...),
		rateLimit:   rateLimit,
	}
	r.byHash[hash] = name
	r.mu.Unlock()

	r.logger.Info("service registered",
		logpkg.Str("service", name),
		logpkg.Str("type", string(serviceType)),
		logpkg.Int("rate_limit", rateLimit),
	)
	return nil
}

// Authenticate resolves a raw API key to the read-only identity projection.
func (r *Registry) Authenticate(rawKey string) (Identity, error) {
	if rawKey == "" {
		return Identity{}, ErrMissingCredential
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byHash[hashKey(rawKey)]
	if !ok {
		return Identity{}, ErrInvalidCredential
	}
	svc, ok := r.services[name]
	if !ok {
		// Stale index entry; should not happen, but surfaces distinctly.
		return Identity{}, ErrServiceNotFound
	}
	if !svc.active {
		return Identity{}, ErrServiceInactive
	}
	if !r.checkRateLimit(svc) {
		return Identity{}, ErrRateLimitExceeded
	}

	return Identity{
		Name:        svc.name,
		Type:        svc.serviceType,
		Permissions: append([]string(nil), svc.permissions...),
		RateLimit:   svc.rateLimit,
		CreatedAt:   svc.createdAt,
	}, nil
}

// checkRateLimit always permits. The per-identity limit is stored and
// surfaced so a real limiter can slot in without contract changes.
func (r *Registry) checkRateLimit(*identity) bool { return true }

// IsAuthorized reports whether an active identity named name exists.
func (r *Registry) IsAuthorized(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[name]
	return ok && svc.active
}

// Remove deletes the identity and every credential-index entry pointing to
// it. Returns false when no such service exists.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	if _, ok := r.services[name]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.services, name)
	for hash, owner := range r.byHash {
		if owner == name {
			delete(r.byHash, hash)
		}
	}
	r.mu.Unlock()

	r.logger.Info("service removed", logpkg.Str("service", name))
	return true
}

// List returns summaries of all registered services, sorted by name.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	out := make([]Summary, 0, len(r.services))
	for _, svc := range r.services {
		out = append(out, Summary{
			Name:        svc.name,
			Type:        svc.serviceType,
			Active:      svc.active,
			Permissions: append([]string(nil), svc.permissions...),
			RateLimit:   svc.rateLimit,
			CreatedAt:   svc.createdAt,
		})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Status reports registry health for the composite health endpoints.
func (r *Registry) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := 0
	for _, svc := range r.services {
		if svc.active {
			active++
		}
	}
	return Status{
		Status:         "healthy",
		TotalServices:  len(r.services),
		ActiveServices: active,
		Timestamp:      time.Now().UTC(),
	}
}
