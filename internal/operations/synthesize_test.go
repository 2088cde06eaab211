package operations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSynthesizeWrapsPCM(t *testing.T) {
	pcm := make([]byte, 1000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tts-stream" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body["output_format"] != "pcm_s16le" {
			t.Errorf("expected output_format pcm_s16le, got %v", body["output_format"])
		}
		_, _ = w.Write(pcm)
	}))
	defer server.Close()

	service := newTestService(t, server.URL)
	artifact, err := service.Synthesize(context.Background(), SynthesizeParams{
		Text:         "hello world",
		VoiceID:      42,
		OutputFormat: "pcm_s16le",
		SampleRate:   24000,
	})
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(artifact.Data) != 1044 {
		t.Errorf("expected 1044 bytes after WAV wrapping, got %d", len(artifact.Data))
	}
	if !strings.HasPrefix(string(artifact.Data), "RIFF") {
		t.Errorf("expected payload to begin with RIFF, got %q", artifact.Data[:4])
	}
	if artifact.MIME != "audio/wav" {
		t.Errorf("expected audio/wav MIME, got %q", artifact.MIME)
	}
	if artifact.Name != "synthesis.wav" {
		t.Errorf("expected synthesis.wav name, got %q", artifact.Name)
	}
}

func TestSynthesizePassthroughFormats(t *testing.T) {
	tests := []struct {
		format   string
		wantMIME string
		wantName string
	}{
		{"wav", "audio/wav", "synthesis.wav"},
		{"flac", "audio/flac", "synthesis.flac"},
		{"adts", "audio/aac", "synthesis.aac"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			payload := []byte("opaque-encoded-audio")
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(payload)
			}))
			defer server.Close()

			service := newTestService(t, server.URL)
			artifact, err := service.Synthesize(context.Background(), SynthesizeParams{
				Text:         "hello world",
				OutputFormat: tt.format,
			})
			if err != nil {
				t.Fatalf("Synthesize returned error: %v", err)
			}
			if string(artifact.Data) != string(payload) {
				t.Errorf("expected passthrough payload, got %q", artifact.Data)
			}
			if artifact.MIME != tt.wantMIME {
				t.Errorf("expected MIME %q, got %q", tt.wantMIME, artifact.MIME)
			}
			if artifact.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, artifact.Name)
			}
		})
	}
}

func TestSynthesizeRejectsShortText(t *testing.T) {
	service := newTestService(t, "https://unused.example.com")
	_, err := service.Synthesize(context.Background(), SynthesizeParams{Text: "hi"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError before any network call, got %v", err)
	}
}

func TestTranslatedTTSEndToEnd(t *testing.T) {
	audioBytes := []byte("translated-audio-bytes")
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/translated-tts":
			_ = json.NewEncoder(w).Encode(map[string]string{"task_id": "t1"})
		case r.Method == http.MethodGet && r.URL.Path == "/translated-tts/t1":
			polls++
			if polls == 1 {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS", "run_id": "r1"})
		case r.Method == http.MethodGet && r.URL.Path == "/translated-tts-result/r1":
			_, _ = w.Write(audioBytes)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	service := newTestService(t, server.URL)
	artifact, err := service.TranslatedTTS(context.Background(), TranslatedTTSParams{
		Text:           "good morning",
		VoiceID:        7,
		SourceLanguage: 1,
		TargetLanguage: 2,
	})
	if err != nil {
		t.Fatalf("TranslatedTTS returned error: %v", err)
	}
	if artifact.RunID != "r1" {
		t.Errorf("expected run id r1, got %q", artifact.RunID)
	}
	if string(artifact.Data) != string(audioBytes) {
		t.Errorf("expected fetched artifact bytes, got %q", artifact.Data)
	}
	if polls != 2 {
		t.Errorf("expected 2 status polls, got %d", polls)
	}
}

func TestTranslatedTTSFetchFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/translated-tts":
			_ = json.NewEncoder(w).Encode(map[string]string{"task_id": "t1"})
		case r.URL.Path == "/translated-tts/t1":
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS", "run_id": "r1"})
		default:
			http.Error(w, "artifact store unavailable", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	service := newTestService(t, server.URL)
	if _, err := service.TranslatedTTS(context.Background(), TranslatedTTSParams{Text: "good morning"}); err == nil {
		t.Fatal("expected artifact fetch failure to surface as a fatal error")
	}
}
