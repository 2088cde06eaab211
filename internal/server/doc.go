// Package server implements the monitoring HTTP endpoints for a running
// batch client: health, sanitized configuration, batch statistics, and
// Prometheus metrics.
package server
