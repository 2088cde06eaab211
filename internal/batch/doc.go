// Package batch runs a sequence of capability items against the remote
// API, one at a time, preserving item indices in every output record.
package batch
