package operations

import (
	"context"
	"testing"
	"time"

	"github.com/Camb-ai/camb-go/internal/api"
	"github.com/Camb-ai/camb-go/internal/task"
)

func newTestService(t *testing.T, baseURL string) *Service {
	t.Helper()
	client, err := api.NewClient(api.Config{BaseURL: baseURL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	poller := task.NewPoller(client, task.WithSleeper(func(context.Context, time.Duration) error {
		return nil
	}))
	return NewService(client, poller)
}
