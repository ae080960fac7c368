package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	"github.com/cezarfuhr/primoia-log-watcher/pkg/log"
)

// hourKeyLayout is the aggregation bucket key, UTC date plus hour.
const hourKeyLayout = "2006-01-02 15:00"

func hourKey(t time.Time) string {
	return t.UTC().Truncate(time.Hour).Format(hourKeyLayout)
}

type serviceCounters struct {
	serviceType contract.ServiceType
	total       uint64
	byLevel     map[string]uint64
	byHour      map[string]uint64
	bytes       uint64
	first       time.Time
	last        time.Time
}

// Aggregator owns all metrics state. One mutex guards everything;
// every operation is a handful of map updates.
type Aggregator struct {
	mu sync.Mutex

	services map[string]*serviceCounters
	order    []string // insertion order, breaks ranking ties

	processed    uint64
	failed       uint64
	errorsByKind map[string]uint64
	latMin       float64
	latMax       float64
	latSum       float64
	latCount     uint64

	logger log.Logger
	now    func() time.Time
}

// New creates an empty aggregator.
func New(logger log.Logger) *Aggregator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Aggregator{
		services:     make(map[string]*serviceCounters),
		errorsByKind: make(map[string]uint64),
		logger:       logger.WithComponent("metrics"),
		now:          time.Now,
	}
}

func (a *Aggregator) service(name string, st contract.ServiceType) *serviceCounters {
	sc, ok := a.services[name]
	if !ok {
		sc = &serviceCounters{
			serviceType: st,
			byLevel:     make(map[string]uint64),
			byHour:      make(map[string]uint64),
		}
		a.services[name] = sc
		a.order = append(a.order, name)
	}
	return sc
}

// RecordIngestion accumulates one admitted record.
func (a *Aggregator) RecordIngestion(name string, st contract.ServiceType, level contract.Level, sizeBytes int) {
	now := a.now().UTC()

	a.mu.Lock()
	defer a.mu.Unlock()

	sc := a.service(name, st)
	sc.total++
	sc.byLevel[string(level)]++
	sc.byHour[hourKey(now)]++
	if sizeBytes > 0 {
		sc.bytes += uint64(sizeBytes)
	}
	if sc.first.IsZero() {
		sc.first = now
	}
	sc.last = now
}

// RecordBatchIngestion accumulates a whole batch in one step. Per-level
// counters are not touched; batch detail is tracked only in aggregate.
func (a *Aggregator) RecordBatchIngestion(name string, st contract.ServiceType, batchSize, sizeBytes int) {
	if batchSize <= 0 {
		return
	}
	now := a.now().UTC()

	a.mu.Lock()
	defer a.mu.Unlock()

	sc := a.service(name, st)
	sc.total += uint64(batchSize)
	sc.byHour[hourKey(now)] += uint64(batchSize)
	if sizeBytes > 0 {
		sc.bytes += uint64(sizeBytes)
	}
	if sc.first.IsZero() {
		sc.first = now
	}
	sc.last = now
}

// RecordProcessingSuccess folds one completed task's latency into the
// running counters.
func (a *Aggregator) RecordProcessingSuccess(latencyMs float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.latCount == 0 || latencyMs < a.latMin {
		a.latMin = latencyMs
	}
	if latencyMs > a.latMax {
		a.latMax = latencyMs
	}
	a.latSum += latencyMs
	a.latCount++
	a.processed++
}

// RecordProcessingError counts one terminal processing failure by kind.
func (a *Aggregator) RecordProcessingError(kind, message string) {
	a.mu.Lock()
	a.failed++
	a.errorsByKind[kind]++
	a.mu.Unlock()

	a.logger.Warn("processing error recorded",
		log.Str("kind", kind),
		log.Str("message", message))
}

// ServiceStats computes one service's snapshot. The second return is
// false when the service has never been seen.
func (a *Aggregator) ServiceStats(name string) (ServiceSnapshot, bool) {
	now := a.now().UTC()

	a.mu.Lock()
	defer a.mu.Unlock()

	sc, ok := a.services[name]
	if !ok {
		return ServiceSnapshot{}, false
	}

	snap := ServiceSnapshot{
		ServiceName:    name,
		ServiceType:    sc.serviceType,
		TotalLogs:      sc.total,
		LogsByLevel:    make(map[string]uint64, len(sc.byLevel)),
		LogsLast24h:    make(map[string]uint64, 24),
		TotalBytes:     sc.bytes,
		FirstIngestion: sc.first,
		LastIngestion:  sc.last,
	}
	for lvl, n := range sc.byLevel {
		snap.LogsByLevel[lvl] = n
	}

	// Trailing 24 hour-buckets, oldest first; empty buckets reported as 0.
	base := now.Truncate(time.Hour)
	for i := 23; i >= 0; i-- {
		key := base.Add(-time.Duration(i) * time.Hour).Format(hourKeyLayout)
		snap.LogsLast24h[key] = sc.byHour[key]
	}

	hours := now.Sub(sc.first).Hours()
	if hours < 1 {
		hours = 1
	}
	snap.LogsPerHour = float64(sc.total) / hours
	return snap, true
}

func (a *Aggregator) processingLocked() ProcessingSnapshot {
	p := ProcessingSnapshot{
		TotalProcessed: a.processed,
		TotalFailed:    a.failed,
		ErrorsByKind:   make(map[string]uint64, len(a.errorsByKind)),
	}
	for kind, n := range a.errorsByKind {
		p.ErrorsByKind[kind] = n
	}
	if a.latCount > 0 {
		p.MinLatencyMs = a.latMin
		p.MaxLatencyMs = a.latMax
		p.AvgLatencyMs = a.latSum / float64(a.latCount)
	}
	if total := a.processed + a.failed; total > 0 {
		p.SuccessRate = float64(a.processed) / float64(total) * 100
	}
	return p
}

// GlobalStats computes the cross-service snapshot.
func (a *Aggregator) GlobalStats() GlobalSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := GlobalSnapshot{
		TotalServices:       len(a.services),
		LevelDistribution:   make(map[string]uint64),
		ServiceDistribution: make(map[string]uint64, len(a.services)),
		Processing:          a.processingLocked(),
		Timestamp:           a.now().UTC(),
	}
	for name, sc := range a.services {
		snap.TotalLogs += sc.total
		snap.TotalBytes += sc.bytes
		snap.ServiceDistribution[name] = sc.total
		for lvl, n := range sc.byLevel {
			snap.LevelDistribution[lvl] += n
		}
	}
	return snap
}

// TopServices ranks services by total log count descending. Ties keep
// first-seen order. limit caps the result; limit < 1 returns nil.
func (a *Aggregator) TopServices(limit int) []ServiceRank {
	if limit < 1 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ranks := make([]ServiceRank, 0, len(a.order))
	for _, name := range a.order {
		sc := a.services[name]
		ranks = append(ranks, ServiceRank{
			ServiceName: name,
			ServiceType: sc.serviceType,
			TotalLogs:   sc.total,
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].TotalLogs > ranks[j].TotalLogs
	})
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// ClearOld drops hour buckets older than daysToKeep across all services
// and returns how many buckets were removed. Totals are untouched.
func (a *Aggregator) ClearOld(daysToKeep int) int {
	if daysToKeep < 1 {
		daysToKeep = 1
	}
	cutoff := a.now().UTC().AddDate(0, 0, -daysToKeep)

	a.mu.Lock()
	defer a.mu.Unlock()

	removed := 0
	for _, sc := range a.services {
		for key := range sc.byHour {
			ts, err := time.Parse(hourKeyLayout, key)
			if err != nil || ts.Before(cutoff) {
				delete(sc.byHour, key)
				removed++
			}
		}
	}
	if removed > 0 {
		a.logger.Info("stale metric buckets removed",
			log.Int("count", removed),
			log.Int("days_kept", daysToKeep))
	}
	return removed
}
