package queue

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cezarfuhr/primoia-log-watcher/internal/contract"
)

func testRecord(msg string) contract.LogRecord {
	return contract.LogRecord{
		ServiceName: "checkout",
		ServiceType: contract.ServiceEcommerce,
		Timestamp:   time.Now().UTC(),
		Level:       contract.LevelInfo,
		Message:     msg,
	}
}

func enqueueN(t *testing.T, q *Queue, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := q.EnqueueSingle(NewItem(
			fmt.Sprintf("log-%d", i), "checkout", "", testRecord(fmt.Sprintf("msg %d", i))))
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestQueueFIFOOrder(t *testing.T) {
	q := New(3, nil)
	ids := enqueueN(t, q, 3)

	for i, want := range ids {
		task, err := q.DequeueSingle()
		if err != nil {
			t.Fatalf("dequeue %d: %v", i, err)
		}
		if task == nil {
			t.Fatalf("dequeue %d: got nil task", i)
		}
		if task.ID != want {
			t.Errorf("dequeue %d: got task %s, want %s", i, task.ID, want)
		}
	}

	task, err := q.DequeueSingle()
	if err != nil {
		t.Fatalf("dequeue empty: %v", err)
	}
	if task != nil {
		t.Errorf("expected nil from empty lane, got %s", task.ID)
	}
}

func TestQueueBatchLaneIndependent(t *testing.T) {
	q := New(3, nil)

	items := []Item{
		NewItem("log-a", "checkout", "batch-1", testRecord("a")),
		NewItem("log-b", "checkout", "batch-1", testRecord("b")),
	}
	batchID, err := q.EnqueueBatch(BatchPayload{BatchID: "batch-1", Items: items})
	if err != nil {
		t.Fatalf("enqueue batch: %v", err)
	}
	singleID, err := q.EnqueueSingle(NewItem("log-c", "checkout", "", testRecord("c")))
	if err != nil {
		t.Fatalf("enqueue single: %v", err)
	}

	bt, err := q.DequeueBatch()
	if err != nil || bt == nil {
		t.Fatalf("dequeue batch: task=%v err=%v", bt, err)
	}
	if bt.ID != batchID || bt.Kind != KindBatch || bt.Batch.Size != 2 {
		t.Errorf("unexpected batch task: %s kind=%s size=%d", bt.ID, bt.Kind, bt.Batch.Size)
	}

	st, err := q.DequeueSingle()
	if err != nil || st == nil {
		t.Fatalf("dequeue single: task=%v err=%v", st, err)
	}
	if st.ID != singleID || st.Kind != KindSingle {
		t.Errorf("unexpected single task: %s kind=%s", st.ID, st.Kind)
	}
}

func TestQueueRetryToDeadLetter(t *testing.T) {
	q := New(3, nil)
	enqueueN(t, q, 1)

	cause := errors.New("downstream refused")
	for attempt := 1; attempt <= 3; attempt++ {
		task, err := q.DequeueSingle()
		if err != nil || task == nil {
			t.Fatalf("attempt %d: task=%v err=%v", attempt, task, err)
		}
		if err := q.MarkFailed(task, cause); err != nil {
			t.Fatalf("mark failed attempt %d: %v", attempt, err)
		}
	}

	stats := q.Stats()
	if stats.SingleDepth != 0 {
		t.Errorf("single depth after dead-letter = %d, want 0", stats.SingleDepth)
	}
	if stats.DeadLetterDepth != 1 {
		t.Errorf("dead-letter depth = %d, want 1", stats.DeadLetterDepth)
	}
	if stats.TotalFailed != 1 {
		t.Errorf("total failed = %d, want 1", stats.TotalFailed)
	}
}

func TestQueueRetryFailedResetsCounters(t *testing.T) {
	q := New(2, nil)
	ids := enqueueN(t, q, 1)

	for attempt := 0; attempt < 2; attempt++ {
		task, _ := q.DequeueSingle()
		if task == nil {
			t.Fatal("expected task")
		}
		q.MarkFailed(task, errors.New("boom"))
	}
	if q.Stats().DeadLetterDepth != 1 {
		t.Fatal("task not dead-lettered")
	}

	moved, err := q.RetryFailed()
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}

	task, _ := q.DequeueSingle()
	if task == nil {
		t.Fatal("requeued task missing from lane")
	}
	if task.ID != ids[0] {
		t.Errorf("requeued task = %s, want %s", task.ID, ids[0])
	}
	if task.RetryCount != 0 {
		t.Errorf("retry count after requeue = %d, want 0", task.RetryCount)
	}
	if task.LastError != "" {
		t.Errorf("last error after requeue = %q, want empty", task.LastError)
	}
}

func TestQueueClearFailed(t *testing.T) {
	q := New(1, nil)
	enqueueN(t, q, 2)

	for i := 0; i < 2; i++ {
		task, _ := q.DequeueSingle()
		q.MarkFailed(task, errors.New("boom"))
	}

	dropped, err := q.ClearFailed()
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if depth := q.Stats().DeadLetterDepth; depth != 0 {
		t.Errorf("dead-letter depth after clear = %d, want 0", depth)
	}
}

func TestQueueRequeueGoesToTail(t *testing.T) {
	q := New(3, nil)
	ids := enqueueN(t, q, 2)

	first, _ := q.DequeueSingle()
	if first.ID != ids[0] {
		t.Fatalf("head = %s, want %s", first.ID, ids[0])
	}
	q.MarkFailed(first, errors.New("transient"))

	next, _ := q.DequeueSingle()
	if next.ID != ids[1] {
		t.Errorf("after requeue head = %s, want %s (requeue must go to tail)", next.ID, ids[1])
	}
	tail, _ := q.DequeueSingle()
	if tail.ID != ids[0] {
		t.Errorf("tail = %s, want requeued %s", tail.ID, ids[0])
	}
	if tail.RetryCount != 1 {
		t.Errorf("requeued retry count = %d, want 1", tail.RetryCount)
	}
}

func TestQueueClosedOperations(t *testing.T) {
	q := New(3, nil)
	q.Close()
	q.Close() // idempotent

	if _, err := q.EnqueueSingle(NewItem("x", "svc", "", testRecord("x"))); !errors.Is(err, ErrUnavailable) {
		t.Errorf("enqueue on closed queue: err = %v, want ErrUnavailable", err)
	}
	if _, err := q.DequeueSingle(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("dequeue on closed queue: err = %v, want ErrUnavailable", err)
	}
	if _, err := q.RetryFailed(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("retry on closed queue: err = %v, want ErrUnavailable", err)
	}
	if st := q.Status(); st.Status != "unavailable" {
		t.Errorf("closed status = %q, want unavailable", st.Status)
	}
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	q := New(3, nil)

	const workers = 8
	const perWorker = 250

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := q.EnqueueSingle(NewItem(
					fmt.Sprintf("log-%d-%d", w, i), "checkout", "", testRecord("c")))
				if err != nil {
					t.Errorf("worker %d enqueue %d: %v", w, i, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for {
		task, err := q.DequeueSingle()
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if task == nil {
			break
		}
		if seen[task.ID] {
			t.Fatalf("duplicate task id %s", task.ID)
		}
		seen[task.ID] = true
	}
	if len(seen) != workers*perWorker {
		t.Errorf("recovered %d tasks, want %d", len(seen), workers*perWorker)
	}
}

func TestQueueStatsCounters(t *testing.T) {
	q := New(3, nil)
	enqueueN(t, q, 3)

	for i := 0; i < 2; i++ {
		task, _ := q.DequeueSingle()
		q.MarkProcessed(task)
	}

	stats := q.Stats()
	if stats.TotalProcessed != 2 {
		t.Errorf("processed = %d, want 2", stats.TotalProcessed)
	}
	if stats.SingleDepth != 1 {
		t.Errorf("single depth = %d, want 1", stats.SingleDepth)
	}

	st := q.Status()
	if st.Status != "healthy" {
		t.Errorf("status = %q, want healthy", st.Status)
	}
	if st.Lanes["log_processing"].Size != 1 {
		t.Errorf("log_processing size = %d, want 1", st.Lanes["log_processing"].Size)
	}
}

func TestRecordCount(t *testing.T) {
	single := &Task{Kind: KindSingle, Single: &Item{}}
	if n := RecordCount(single); n != 1 {
		t.Errorf("single record count = %d, want 1", n)
	}
	batch := &Task{Kind: KindBatch, Batch: &BatchPayload{Items: make([]Item, 4)}}
	if n := RecordCount(batch); n != 4 {
		t.Errorf("batch record count = %d, want 4", n)
	}
	if n := RecordCount(nil); n != 0 {
		t.Errorf("nil record count = %d, want 0", n)
	}
}
