// Package queue implements the in-memory processing queue behind the
// ingestion API: two FIFO lanes (single-record and batch tasks) plus a
// dead-letter set for tasks that exhausted their retry budget.
//
// # Task lifecycle
//
//  1. Enqueue: the payload is wrapped in a Task (retry counter zero) and
//     appended to its lane.
//  2. Dequeue: a consumer pops the head of a lane; pops never block and
//     return an empty sentinel when the lane is empty.
//  3. MarkProcessed: terminal success, bumps the processed counter.
//  4. MarkFailed: bumps the task's retry counter. Below the ceiling the task
//     re-enters its lane at the tail (retries get no priority over newer
//     arrivals); at the ceiling it moves to the dead-letter set tagged with
//     the final error.
//  5. Dead-lettered tasks leave only through RetryFailed (counters reset,
//     back to their lanes) or ClearFailed (discarded).
//
// FIFO order within a lane is a strict invariant. Delivery is at-least-once:
// a consumer that crashes between Dequeue and MarkProcessed simply never
// acknowledges, and operators re-submit via the admin surface.
package queue
