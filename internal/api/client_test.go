package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{BaseURL: baseURL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestClientInjectsAPIKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, Target: "/list-voices"}); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("expected x-api-key header test-key, got %q", gotKey)
	}
}

func TestClientAbsoluteTargetBypassesAuth(t *testing.T) {
	var gotKey string
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("artifact-bytes"))
	}))
	defer server.Close()

	// Base URL points elsewhere; the absolute target must be used verbatim.
	client := newTestClient(t, "https://unused.example.com")
	resp, err := client.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Target:  server.URL + "/artifacts/r1.wav",
		Options: Options{Binary: true},
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if gotKey != "" {
		t.Errorf("expected no auth header on absolute target, got %q", gotKey)
	}
	if gotPath != "/artifacts/r1.wav" {
		t.Errorf("expected verbatim artifact path, got %q", gotPath)
	}
	if string(resp.Body) != "artifact-bytes" {
		t.Errorf("expected raw artifact bytes, got %q", resp.Body)
	}
}

func TestClientSkipAuthOption(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Do(context.Background(), Request{
		Target:  "/public",
		Options: Options{SkipAuth: true},
	}); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if gotKey != "" {
		t.Errorf("expected auth header to be stripped, got %q", gotKey)
	}
}

func TestClientErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		contains string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"bad key"}`, ErrAuth, "invalid credentials"},
		{"rate limited", http.StatusTooManyRequests, ``, ErrRateLimited, "rate limited"},
		{"bad request", http.StatusBadRequest, `{"message":"text too long"}`, ErrBadRequest, "text too long"},
		{"not found", http.StatusNotFound, `{"detail":"no such task"}`, ErrNotFound, "no such task"},
		{"server error", http.StatusInternalServerError, `boom`, nil, "http 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, err := client.Do(context.Background(), Request{Target: "/tts"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("expected error to match sentinel %v, got %v", tt.sentinel, err)
			}
			if tt.sentinel == nil {
				for _, sentinel := range []error{ErrAuth, ErrRateLimited, ErrBadRequest, ErrNotFound} {
					if errors.Is(err, sentinel) {
						t.Errorf("generic error should not match %v", sentinel)
					}
				}
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error to contain %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestClientJSONBodyAndQuery(t *testing.T) {
	type payload struct {
		Text string `json:"text"`
	}
	var gotBody payload
	var gotQuery url.Values
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"task_id": "t1"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Target: "/tts",
		Body:   payload{Text: "hello"},
		Query:  url.Values{"language": {"en"}},
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if gotBody.Text != "hello" {
		t.Errorf("expected JSON body text hello, got %q", gotBody.Text)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotContentType)
	}
	if gotQuery.Get("language") != "en" {
		t.Errorf("expected language query param en, got %q", gotQuery.Get("language"))
	}

	var decoded map[string]string
	if err := resp.Decode(&decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded["task_id"] != "t1" {
		t.Errorf("expected task_id t1, got %q", decoded["task_id"])
	}
}

func TestClientMultipartForm(t *testing.T) {
	var gotName, gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotName = r.FormValue("voice_name")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("read form file: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFile = header.Filename + ":" + string(data)
		_ = json.NewEncoder(w).Encode(map[string]string{"voice_id": "v1"})
	}))
	defer server.Close()

	form := NewForm().
		Set("voice_name", "narrator").
		AttachFile("file", "sample.wav", []byte("pcm-bytes"))

	client := newTestClient(t, server.URL)
	if _, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Target: "/create-custom-voice",
		Form:   form,
	}); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if gotName != "narrator" {
		t.Errorf("expected voice_name narrator, got %q", gotName)
	}
	if gotFile != "sample.wav:pcm-bytes" {
		t.Errorf("unexpected file part %q", gotFile)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "https://example.com"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
