package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Camb-ai/camb-go/internal/api"
	"github.com/Camb-ai/camb-go/internal/metrics"
)

// DefaultInterval is the fixed delay between non-terminal polls.
const DefaultInterval = 3 * time.Second

// Reason classifies why a task ended in failure.
type Reason int

const (
	ReasonFailed Reason = iota
	ReasonTimedOut
	ReasonPaymentRequired
)

func (r Reason) String() string {
	switch r {
	case ReasonTimedOut:
		return "timed_out"
	case ReasonPaymentRequired:
		return "payment_required"
	default:
		return "failed"
	}
}

// Error is a task that reached a failure terminal.
type Error struct {
	Reason  Reason
	Target  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("task %s: %s", e.Target, e.Message)
}

// Poller drives a submitted task to a terminal state by repeatedly querying
// its status endpoint through the request client. It retries nothing except
// the not-found window right after task creation.
type Poller struct {
	client   *api.Client
	interval time.Duration
	maxWait  time.Duration // 0 waits indefinitely
	logger   *slog.Logger
	metrics  *metrics.Metrics
	sleeper  func(ctx context.Context, d time.Duration) error
}

// Option customizes the poller.
type Option func(*Poller)

// WithInterval overrides the fixed poll interval.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithMaxWait bounds the total polling time. Zero preserves the unbounded
// behavior of the upstream service contract.
func WithMaxWait(maxWait time.Duration) Option {
	return func(p *Poller) {
		p.maxWait = maxWait
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Poller) {
		p.metrics = m
	}
}

// WithSleeper overrides how the poll delay is performed (useful for tests).
func WithSleeper(sleeper func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Poller) {
		if sleeper != nil {
			p.sleeper = sleeper
		}
	}
}

// NewPoller creates a poller over the supplied request client.
func NewPoller(client *api.Client, opts ...Option) *Poller {
	p := &Poller{
		client:   client,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	p.sleeper = p.sleep
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait polls statusTarget until the task reaches a terminal state. On
// SUCCESS the full envelope is returned so callers can extract the run id.
// Failure terminals surface as *Error; any transport error other than
// not-found is fatal and propagates unchanged.
func (p *Poller) Wait(ctx context.Context, statusTarget string) (*Envelope, error) {
	start := time.Now()
	for iteration := 1; ; iteration++ {
		if p.maxWait > 0 && time.Since(start) >= p.maxWait {
			p.metrics.RecordTaskResolved(ReasonTimedOut.String())
			return nil, &Error{
				Reason:  ReasonTimedOut,
				Target:  statusTarget,
				Message: fmt.Sprintf("polling budget of %v exhausted", p.maxWait),
			}
		}

		resp, err := p.client.Do(ctx, api.Request{Target: statusTarget})
		if err != nil {
			if api.IsNotFound(err) {
				// The status record can lag task creation; wait it out.
				p.metrics.RecordPoll(true)
				p.logger.Debug("task record not queryable yet",
					slog.String("target", statusTarget),
					slog.Int("iteration", iteration),
				)
				if err := p.sleeper(ctx, p.interval); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}
		p.metrics.RecordPoll(false)

		var envelope Envelope
		if err := resp.Decode(&envelope); err != nil {
			return nil, fmt.Errorf("task %s: %w", statusTarget, err)
		}

		status := ParseStatus(envelope.Status)
		p.logger.Debug("task status",
			slog.String("target", statusTarget),
			slog.String("status", string(status)),
			slog.Int("iteration", iteration),
		)

		switch status {
		case StatusSuccess:
			p.metrics.RecordTaskResolved("success")
			return &envelope, nil
		case StatusError, StatusFailed:
			p.metrics.RecordTaskResolved(ReasonFailed.String())
			return nil, &Error{Reason: ReasonFailed, Target: statusTarget, Message: envelope.FailureMessage()}
		case StatusTimeout:
			p.metrics.RecordTaskResolved(ReasonTimedOut.String())
			return nil, &Error{
				Reason:  ReasonTimedOut,
				Target:  statusTarget,
				Message: "server timeout: retry or reduce input size",
			}
		case StatusPaymentRequired:
			p.metrics.RecordTaskResolved(ReasonPaymentRequired.String())
			return nil, &Error{
				Reason:  ReasonPaymentRequired,
				Target:  statusTarget,
				Message: "insufficient account balance",
			}
		default:
			if err := p.sleeper(ctx, p.interval); err != nil {
				return nil, err
			}
		}
	}
}

func (p *Poller) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
