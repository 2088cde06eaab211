package task

import "strings"

// Status is the closed set of task states the poller dispatches on. The wire
// string is normalized once at the boundary; anything unrecognized is treated
// as still pending.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusSuccess         Status = "SUCCESS"
	StatusError           Status = "ERROR"
	StatusFailed          Status = "FAILED"
	StatusTimeout         Status = "TIMEOUT"
	StatusPaymentRequired Status = "PAYMENT_REQUIRED"
)

// ParseStatus normalizes a wire status string. Unknown values map to
// StatusPending so the poller keeps waiting, which also covers the window
// before the service reports any explicit status.
func ParseStatus(wire string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(wire))) {
	case StatusSuccess:
		return StatusSuccess
	case StatusError:
		return StatusError
	case StatusFailed:
		return StatusFailed
	case StatusTimeout:
		return StatusTimeout
	case StatusPaymentRequired:
		return StatusPaymentRequired
	default:
		return StatusPending
	}
}

// Terminal reports whether the status stops the polling loop.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Envelope is the task status payload returned by each poll. RunID is only
// meaningful once Status normalizes to SUCCESS.
type Envelope struct {
	Status  string `json:"status"`
	RunID   string `json:"run_id"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// FailureMessage picks the most specific failure text from the envelope.
func (e *Envelope) FailureMessage() string {
	if msg := strings.TrimSpace(e.Error); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return "task failed"
}
