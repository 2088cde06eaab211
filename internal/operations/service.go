package operations

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Camb-ai/camb-go/internal/api"
	"github.com/Camb-ai/camb-go/internal/metrics"
	"github.com/Camb-ai/camb-go/internal/task"
)

// syncTimeout bounds synchronous calls that stream a complete artifact in
// one response.
const syncTimeout = 60 * time.Second

// AudioArtifact is a binary result payload with its derived metadata. It is
// exclusively owned by the orchestrator that fetched it until handed to the
// caller.
type AudioArtifact struct {
	Name  string
	MIME  string
	Data  []byte
	RunID string
}

// Service composes the request client and the task poller into the
// capability orchestrators.
type Service struct {
	client  *api.Client
	poller  *task.Poller
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option customizes the service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates the orchestrator service.
func NewService(client *api.Client, poller *task.Poller, opts ...Option) *Service {
	s := &Service{
		client: client,
		poller: poller,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// submitResponse is the envelope every task submission returns.
type submitResponse struct {
	TaskID string `json:"task_id"`
}

// submitTask posts a task submission and returns its opaque task id.
func (s *Service) submitTask(ctx context.Context, target string, body any, form *api.Form) (string, error) {
	resp, err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Target: target,
		Body:   body,
		Form:   form,
	})
	if err != nil {
		return "", err
	}
	var submitted submitResponse
	if err := resp.Decode(&submitted); err != nil {
		return "", fmt.Errorf("submit %s: %w", target, err)
	}
	if submitted.TaskID == "" {
		return "", fmt.Errorf("submit %s: response carried no task id", target)
	}
	return submitted.TaskID, nil
}

// runTask submits a task, polls its status endpoint to SUCCESS, and returns
// the terminal envelope. The status endpoint is the submit target with the
// task id appended.
func (s *Service) runTask(ctx context.Context, target string, body any, form *api.Form) (*task.Envelope, error) {
	taskID, err := s.submitTask(ctx, target, body, form)
	if err != nil {
		return nil, err
	}
	s.logger.Info("task submitted",
		slog.String("endpoint", target),
		slog.String("task_id", taskID),
	)

	envelope, err := s.poller.Wait(ctx, target+"/"+taskID)
	if err != nil {
		return nil, err
	}
	if envelope.RunID == "" {
		return nil, fmt.Errorf("task %s/%s: success envelope carried no run id", target, taskID)
	}
	return envelope, nil
}

// fetchBinary downloads a binary artifact. Absolute targets bypass auth in
// the request client.
func (s *Service) fetchBinary(ctx context.Context, target string) ([]byte, error) {
	resp, err := s.client.Do(ctx, api.Request{
		Method:  http.MethodGet,
		Target:  target,
		Options: api.Options{Timeout: syncTimeout, Binary: true},
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordArtifact(len(resp.Body))
	return resp.Body, nil
}

// fetchJSON downloads a structured result payload.
func (s *Service) fetchJSON(ctx context.Context, target string, result any) error {
	resp, err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Target: target})
	if err != nil {
		return err
	}
	if err := resp.Decode(result); err != nil {
		return fmt.Errorf("fetch %s: %w", target, err)
	}
	s.metrics.RecordArtifact(len(resp.Body))
	return nil
}
