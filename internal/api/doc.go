// Package api implements the HTTP request client for the remote voice API.
// It builds one call per Request descriptor, injects the API key for calls
// against the fixed base endpoint, switches to multipart transport when a
// form body is supplied, and normalizes transport failures into a typed
// error taxonomy. Retrying is never this package's job.
package api
