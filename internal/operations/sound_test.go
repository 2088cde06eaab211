package operations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSound(t *testing.T) {
	soundBytes := []byte("generated-sound")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/text-to-sound":
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request body: %v", err)
			}
			if body["prompt"] != "rain on a tin roof" {
				t.Errorf("unexpected prompt %v", body["prompt"])
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"task_id": "t9"})
		case r.URL.Path == "/text-to-sound/t9":
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS", "run_id": "r9"})
		case r.URL.Path == "/text-to-sound-result/r9":
			_, _ = w.Write(soundBytes)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	service := newTestService(t, server.URL)
	artifact, err := service.GenerateSound(context.Background(), SoundParams{
		Prompt:          "rain on a tin roof",
		DurationSeconds: 5,
	})
	if err != nil {
		t.Fatalf("GenerateSound returned error: %v", err)
	}
	if string(artifact.Data) != string(soundBytes) {
		t.Errorf("expected sound payload, got %q", artifact.Data)
	}
	if artifact.RunID != "r9" {
		t.Errorf("expected run id r9, got %q", artifact.RunID)
	}
}

func TestSeparateAudioFetchesBothStems(t *testing.T) {
	// Stem host simulates the external pre-authorized artifact store.
	var stemAuth []string
	stemHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stemAuth = append(stemAuth, r.Header.Get("x-api-key"))
		switch r.URL.Path {
		case "/stems/fg.wav":
			_, _ = w.Write([]byte("foreground-stem"))
		case "/stems/bg.wav":
			_, _ = w.Write([]byte("background-stem"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer stemHost.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/audio-separation":
			if err := r.ParseMultipartForm(10 << 20); err != nil {
				t.Errorf("parse multipart form: %v", err)
			}
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("expected audio file part: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"task_id": "t5"})
		case r.URL.Path == "/audio-separation/t5":
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS", "run_id": "r5"})
		case r.URL.Path == "/audio-separation-result/r5":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"foreground_url": stemHost.URL + "/stems/fg.wav",
				"background_url": stemHost.URL + "/stems/bg.wav",
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	service := newTestService(t, server.URL)
	result, err := service.SeparateAudio(context.Background(), SeparationParams{
		Audio:    []byte("mixed-audio"),
		FileName: "mix.wav",
	})
	if err != nil {
		t.Fatalf("SeparateAudio returned error: %v", err)
	}
	if string(result.Foreground.Data) != "foreground-stem" {
		t.Errorf("unexpected foreground stem %q", result.Foreground.Data)
	}
	if string(result.Background.Data) != "background-stem" {
		t.Errorf("unexpected background stem %q", result.Background.Data)
	}
	if result.RunID != "r5" {
		t.Errorf("expected run id r5, got %q", result.RunID)
	}
	for i, key := range stemAuth {
		if key != "" {
			t.Errorf("stem fetch %d carried credentials; external URLs must be unauthenticated", i)
		}
	}
}

func TestSeparateAudioRejectsEmptyPayload(t *testing.T) {
	service := newTestService(t, "https://unused.example.com")
	if _, err := service.SeparateAudio(context.Background(), SeparationParams{}); err == nil {
		t.Fatal("expected empty audio payload to be rejected")
	}
}
