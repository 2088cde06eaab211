// Package metrics provides Prometheus instrumentation for the camb client.
// It covers remote API requests, task polling, artifact downloads, and batch
// execution, and is exposed through the monitoring HTTP server.
package metrics
