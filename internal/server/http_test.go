package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Camb-ai/camb-go/internal/batch"
	"github.com/Camb-ai/camb-go/internal/config"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	cfg := &config.Config{
		API: config.APIConfig{
			BaseURL: "https://client.camb.ai/apis",
			APIKey:  "secret-key",
			Timeout: 30,
		},
		Poll:    config.PollConfig{IntervalMs: 3000},
		Batch:   config.BatchConfig{OutputDir: "./output"},
		Logging: config.LoggingConfig{Level: "info", Format: "text", Output: "stdout"},
	}
	runner := batch.NewRunner(nil, nil)
	return NewHTTPServer(config.HTTPConfig{Address: "127.0.0.1", Port: 0}, slog.Default(), cfg, runner, nil)
}

func (h *HTTPServer) serve(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.server.Handler.ServeHTTP(w, r)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)
	w := h.serve(httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var health map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health payload: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("unexpected status %v", health["status"])
	}
}

func TestConfigEndpointOmitsAPIKey(t *testing.T) {
	h := newTestServer(t)
	w := h.serve(httptest.NewRequest(http.MethodGet, "/config", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret-key") {
		t.Error("config endpoint leaked the API key")
	}
	if !strings.Contains(w.Body.String(), "client.camb.ai") {
		t.Error("config endpoint missing base url")
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := newTestServer(t)
	w := h.serve(httptest.NewRequest(http.MethodGet, "/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats payload: %v", err)
	}
	if _, ok := stats["batch"]; !ok {
		t.Error("stats payload missing batch section")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t)
	w := h.serve(httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
