// Package ingest orchestrates log submission end to end.
//
// The Coordinator runs each request through a fixed gate sequence:
// authenticate the bearer credential, check authorization, verify the
// payload's declared service name against the authenticated identity,
// validate the payload, assign identifiers, then enqueue. Any gate
// failure rejects the whole request; batches are admitted or rejected
// atomically, never partially.
//
// Metrics recording is decoupled from the response path. It runs on a
// supervised background Runner whose tasks log their own failures and
// never surface them to the submitting client.
package ingest
