// Package task converts a fire-and-forget task submission into a resolved
// status envelope. It implements the polling state machine over a task
// status endpoint: a fixed interval between non-terminal polls, tolerance
// for the not-found window right after submission, and a typed failure for
// every failure terminal.
package task
