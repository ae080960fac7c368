// Package id generates process-monotonic, lexicographically sortable
// identifiers for log records, batches, and queue tasks.
//
// An ID is 16 bytes: an 8-byte big-endian millisecond timestamp followed by
// an 8-byte per-process sequence. Sorting IDs byte-wise therefore sorts them
// by creation time, which keeps queue dumps and metrics exports readable.
package id
