// Package metrics exposes Prometheus collectors for the harness lifecycle
// (starts, stops, restarts by reason, type registrations, current state) and for
// requests served by the embedded server. The registry is served at /metrics.
package metrics
