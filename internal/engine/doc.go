// Package engine drives deferred work on the host's update thread.
//
// ARCHITECTURE:
//
// Single-threaded cooperative scheduling:
// The host calls Scheduler.Tick once per frame. Each tick polls every
// unresolved poller once, in registration order. A poller that reports done
// moves to resolved and is never polled again. Nothing blocks and nothing
// runs on another goroutine.
//
// Poll quota:
// A scheduler may cap how many times a poller is polled. A poller that hits
// the cap is abandoned: it leaves the unresolved set like a resolved one but
// is reported as a QuotaExceededError.
//
// Tick clock:
// Every tick advances a monotonic sequence number. Session tokens come from
// a TokenGenerator (UUIDv7 in production, fixed in tests).
package engine
