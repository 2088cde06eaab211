package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Camb-ai/camb-go/internal/metrics"
)

const (
	// DefaultBaseURL is the fixed base endpoint of the remote API.
	DefaultBaseURL = "https://client.camb.ai/apis"

	defaultTimeout = 30 * time.Second
	userAgent      = "camb-go/1.0"
	authHeader     = "x-api-key"
)

// Config contains request client configuration. The API key comes from the
// external credential mechanism and is never logged.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Options are the per-call transport options recognized by the client.
// Zero values fall back to client defaults.
type Options struct {
	// Timeout bounds this single call, overriding the client default.
	Timeout time.Duration
	// Binary marks the response as a raw byte payload rather than JSON.
	Binary bool
	// SkipAuth bypasses credential injection. It is an internal marker,
	// stripped before the request reaches the wire.
	SkipAuth bool
}

// Request describes one HTTP call against the remote API. It is built fresh
// per call and never mutated after Do.
type Request struct {
	Method  string
	Target  string // path under the base URL, or an absolute external URL
	Body    any    // JSON-encoded payload
	Form    *Form  // multipart body; takes precedence over Body
	Query   url.Values
	Options Options
}

// Response carries the raw payload of a completed call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the JSON response payload into target.
func (r *Response) Decode(target any) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client issues authenticated HTTP calls against the remote API and
// normalizes transport failures into the error taxonomy. It performs no
// retries of its own.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a request client for the remote API.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := &Client{
		cfg:    cfg,
		logger: slog.Default(),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BaseURL returns the resolved base endpoint.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Do issues the described call and returns the response payload, or a
// classified error. Absolute http(s) targets are fetched verbatim without
// credential injection; they are pre-authorized artifact URLs.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	endpoint, external := c.resolveTarget(req.Target)
	if len(req.Query) > 0 {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return nil, &Error{Endpoint: req.Target, Message: fmt.Sprintf("parse target: %v", err)}
		}
		query := parsed.Query()
		for key, values := range req.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		parsed.RawQuery = query.Encode()
		endpoint = parsed.String()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, &Error{Endpoint: req.Target, Message: err.Error()}
	}

	timeout := c.cfg.Timeout
	if req.Options.Timeout > 0 {
		timeout = req.Options.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &Error{Endpoint: req.Target, Message: fmt.Sprintf("build request: %v", err)}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if !req.Options.Binary {
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set("User-Agent", userAgent)
	// SkipAuth is stripped here: it never reaches the wire, and external
	// artifact URLs are always fetched unauthenticated.
	if !external && !req.Options.SkipAuth {
		httpReq.Header.Set(authHeader, c.cfg.APIKey)
	}

	metricEndpoint := req.Target
	if external {
		metricEndpoint = "external"
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	latency := time.Since(requestStart)
	if err != nil {
		c.metrics.RecordAPIError(metricEndpoint, "transport")
		return nil, &Error{Endpoint: req.Target, Message: fmt.Sprintf("execute request (latency=%v): %v", latency, err)}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordAPIError(metricEndpoint, "transport")
		return nil, &Error{Endpoint: req.Target, Message: fmt.Sprintf("read response: %v", err)}
	}

	c.metrics.RecordAPIRequest(metricEndpoint, strconv.Itoa(resp.StatusCode), latency.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		classified := classifyStatus(req.Target, resp.StatusCode, upstreamMessage(payload))
		c.metrics.RecordAPIError(metricEndpoint, ErrorType(classified))
		c.logger.Debug("api request failed",
			slog.String("endpoint", metricEndpoint),
			slog.Int("status", resp.StatusCode),
			slog.Duration("latency", latency),
		)
		return nil, classified
	}

	c.logger.Debug("api request completed",
		slog.String("endpoint", metricEndpoint),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(payload)),
		slog.Duration("latency", latency),
	)
	return &Response{StatusCode: resp.StatusCode, Body: payload}, nil
}

// resolveTarget joins a path target to the base endpoint; absolute targets
// are used verbatim and flagged as external.
func (c *Client) resolveTarget(target string) (string, bool) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target, true
	}
	return c.cfg.BaseURL + "/" + strings.TrimLeft(target, "/"), false
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.Form != nil {
		return req.Form.encode()
	}
	if req.Body == nil {
		return nil, "", nil
	}
	encoded, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(encoded), "application/json", nil
}

// upstreamMessage extracts a human-readable message from an error payload.
func upstreamMessage(payload []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		for _, candidate := range []string{envelope.Message, envelope.Detail, envelope.Error} {
			if trimmed := strings.TrimSpace(candidate); trimmed != "" {
				return trimmed
			}
		}
	}
	return strings.TrimSpace(string(payload))
}
