// Package stats keeps in-memory per-service probe statistics: rolling
// latency percentiles, up/down cycle counts and status transitions.
// Nothing is persisted; the collector exists for the status API.
package stats
