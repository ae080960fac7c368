// Package contract defines the standardized log submission format shared by
// every service that ships logs to the hub: the LogRecord entry, the
// LogBatch envelope, and their validation rules.
//
// Validation happens once, at the boundary. A record or batch that passed
// Validate is safe to hand to the coordinator and queue without re-checking.
package contract
