package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
	"github.com/cezarfuhr/primoia-log-watcher/internal/metrics"
	"github.com/cezarfuhr/primoia-log-watcher/internal/queue"
	"github.com/cezarfuhr/primoia-log-watcher/internal/registry"
)

const testKey = "checkout-key-2024"

func newTestCoordinator(t *testing.T) (*Coordinator, *queue.Queue, *metrics.Aggregator) {
	t.Helper()
	reg := registry.New(nil)
	if err := reg.Register("checkout", contract.ServiceEcommerce, testKey, nil, 1000); err != nil {
		t.Fatalf("register: %v", err)
	}
	q := queue.New(3, nil)
	agg := metrics.New(nil)
	return New(reg, q, agg, nil), q, agg
}

func testRecord(service, msg string) contract.LogRecord {
	return contract.LogRecord{
		ServiceName:       service,
		ServiceType:       contract.ServiceEcommerce,
		ServiceVersion:    "1.0.0",
		ServiceInstanceID: "inst-1",
		Timestamp:         time.Now().UTC(),
		Level:             contract.LevelInfo,
		Message:           msg,
		Environment:       "test",
	}
}

func testBatch(service string, n int) contract.LogBatch {
	b := contract.LogBatch{
		ServiceName: service,
		ServiceType: contract.ServiceEcommerce,
	}
	for i := 0; i < n; i++ {
		b.Logs = append(b.Logs, testRecord(service, fmt.Sprintf("msg %d", i)))
	}
	return b
}

func TestSubmitSingleHappyPath(t *testing.T) {
	c, q, agg := newTestCoordinator(t)

	ack, err := c.SubmitSingle(context.Background(), testKey, testRecord("checkout", "order placed"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ack.LogID == "" {
		t.Error("expected assigned log id")
	}
	if ack.Timestamp.IsZero() {
		t.Error("expected acknowledgment timestamp")
	}

	task, err := q.DequeueSingle()
	if err != nil || task == nil {
		t.Fatalf("dequeue: task=%v err=%v", task, err)
	}
	if task.Single.LogID != ack.LogID {
		t.Errorf("queued log id = %s, want %s", task.Single.LogID, ack.LogID)
	}
	if task.Single.ServiceName != "checkout" {
		t.Errorf("queued service = %s, want checkout", task.Single.ServiceName)
	}

	c.Drain()
	snap, ok := agg.ServiceStats("checkout")
	if !ok || snap.TotalLogs != 1 {
		t.Errorf("metrics after drain: ok=%v total=%d, want 1", ok, snap.TotalLogs)
	}
}

func TestSubmitSingleAuthFailures(t *testing.T) {
	c, q, _ := newTestCoordinator(t)

	cases := []struct {
		name string
		key  string
		want error
	}{
		{"missing credential", "", registry.ErrMissingCredential},
		{"unknown credential", "not-a-key", registry.ErrInvalidCredential},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.SubmitSingle(context.Background(), tc.key, testRecord("checkout", "x"))
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if depth := q.Stats().SingleDepth; depth != 0 {
		t.Errorf("queue depth after rejections = %d, want 0", depth)
	}
}

func TestSubmitSingleNameMismatch(t *testing.T) {
	c, q, _ := newTestCoordinator(t)

	_, err := c.SubmitSingle(context.Background(), testKey, testRecord("impostor", "x"))
	var verr *contract.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Field != "service_name" {
		t.Errorf("field = %s, want service_name", verr.Field)
	}
	if depth := q.Stats().SingleDepth; depth != 0 {
		t.Errorf("queue depth after mismatch = %d, want 0", depth)
	}
}

func TestSubmitSingleInvalidRecord(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	rec := testRecord("checkout", "")
	_, err := c.SubmitSingle(context.Background(), testKey, rec)
	var verr *contract.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestSubmitBatchHappyPath(t *testing.T) {
	c, q, agg := newTestCoordinator(t)

	ack, err := c.SubmitBatch(context.Background(), testKey, testBatch("checkout", 3))
	if err != nil {
		t.Fatalf("submit batch: %v", err)
	}
	if ack.BatchID == "" || ack.TotalLogs != 3 || len(ack.LogIDs) != 3 {
		t.Errorf("ack = %+v, want batch id and 3 log ids", ack)
	}

	task, err := q.DequeueBatch()
	if err != nil || task == nil {
		t.Fatalf("dequeue batch: task=%v err=%v", task, err)
	}
	if task.Batch.BatchID != ack.BatchID || len(task.Batch.Items) != 3 {
		t.Errorf("queued batch = %s size=%d, want %s size=3", task.Batch.BatchID, len(task.Batch.Items), ack.BatchID)
	}

	c.Drain()
	snap, _ := agg.ServiceStats("checkout")
	if snap.TotalLogs != 3 {
		t.Errorf("metrics total after drain = %d, want 3", snap.TotalLogs)
	}
}

func TestSubmitBatchKeepsClientBatchID(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	b := testBatch("checkout", 1)
	b.BatchID = "client-batch-42"
	ack, err := c.SubmitBatch(context.Background(), testKey, b)
	if err != nil {
		t.Fatalf("submit batch: %v", err)
	}
	if ack.BatchID != "client-batch-42" {
		t.Errorf("batch id = %s, want client-batch-42", ack.BatchID)
	}
}

func TestSubmitBatchRejectsWholesaleOnMixedServices(t *testing.T) {
	c, q, _ := newTestCoordinator(t)

	b := testBatch("checkout", 3)
	b.Logs[1].ServiceName = "svc-b"

	_, err := c.SubmitBatch(context.Background(), testKey, b)
	var verr *contract.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	stats := q.Stats()
	if stats.BatchDepth != 0 || stats.SingleDepth != 0 {
		t.Errorf("queue depths after rejection = %d/%d, want 0/0 (no partial admission)",
			stats.SingleDepth, stats.BatchDepth)
	}
}

func TestSubmitBatchSizeBoundary(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	if _, err := c.SubmitBatch(context.Background(), testKey, testBatch("checkout", contract.MaxBatchRecords)); err != nil {
		t.Errorf("batch of %d rejected: %v", contract.MaxBatchRecords, err)
	}
	if _, err := c.SubmitBatch(context.Background(), testKey, testBatch("checkout", contract.MaxBatchRecords+1)); err == nil {
		t.Errorf("batch of %d accepted, want rejection", contract.MaxBatchRecords+1)
	}
}

func TestSubmitSingleEnqueueFailure(t *testing.T) {
	c, q, agg := newTestCoordinator(t)
	q.Close()

	_, err := c.SubmitSingle(context.Background(), testKey, testRecord("checkout", "x"))
	var eerr *EnqueueError
	if !errors.As(err, &eerr) {
		t.Fatalf("err = %v, want EnqueueError", err)
	}
	if !errors.Is(err, queue.ErrUnavailable) {
		t.Errorf("cause = %v, want ErrUnavailable", err)
	}

	c.Drain()
	if p := agg.GlobalStats().Processing; p.ErrorsByKind["enqueue_failure"] != 1 {
		t.Errorf("enqueue failures recorded = %d, want 1", p.ErrorsByKind["enqueue_failure"])
	}
}

func TestHealthReport(t *testing.T) {
	c, q, _ := newTestCoordinator(t)

	rep := c.Health()
	if !rep.Healthy() {
		t.Errorf("status = %s, want healthy", rep.Status)
	}
	if rep.Registry.TotalServices != 1 {
		t.Errorf("registry services = %d, want 1", rep.Registry.TotalServices)
	}

	q.Close()
	rep = c.Health()
	if rep.Healthy() {
		t.Error("expected degraded health with closed queue")
	}
}

func TestRunnerAbsorbsPanics(t *testing.T) {
	r := NewRunner(nil)
	r.Go("explode", func() { panic("boom") })
	r.Wait() // must return, not crash
}
