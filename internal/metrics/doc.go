// Package metrics accumulates ingestion and processing counters in memory.
//
// The aggregator keeps one record per service (running total, count by
// severity, count by UTC hour bucket, cumulative byte size, first/last
// ingestion timestamps) plus process-wide processing counters with running
// min/max/average latency. All accumulation methods are fire-and-forget:
// they never fail and never block the ingestion path beyond a short
// critical section.
//
// Reads return computed snapshots, never references into live state.
// Restart loses everything; there is no persistence layer.
package metrics
