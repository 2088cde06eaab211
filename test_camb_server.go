package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
)

// Fake CAMB.AI API server for manual testing. Point the client at
// http://localhost:9000 and every capability flow works end to end: task
// submissions return a task id, the first status poll answers PENDING, the
// second answers SUCCESS with a run id, and result endpoints serve fixed
// payloads.

type taskState struct {
	polls int
	runID string
}

var (
	mu      sync.Mutex
	tasks   = map[string]*taskState{}
	counter int
)

func newTask() string {
	mu.Lock()
	defer mu.Unlock()
	counter++
	taskID := fmt.Sprintf("task-%d", counter)
	tasks[taskID] = &taskState{runID: fmt.Sprintf("run-%d", counter)}
	return taskID
}

func submitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(50 << 20); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		if file, header, err := r.FormFile("file"); err == nil {
			data, _ := io.ReadAll(file)
			file.Close()
			log.Printf("  🎧 Received %s (%d bytes)", header.Filename, len(data))
		}
	}

	taskID := newTask()
	log.Printf("📥 SUBMIT %s -> %s", r.URL.Path, taskID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	taskID := parts[len(parts)-1]

	mu.Lock()
	state, ok := tasks[taskID]
	if ok {
		state.polls++
	}
	mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	if state.polls < 2 {
		log.Printf("⏳ POLL %s -> PENDING", taskID)
		json.NewEncoder(w).Encode(map[string]string{"status": "PENDING"})
		return
	}
	log.Printf("✅ POLL %s -> SUCCESS (%s)", taskID, state.runID)
	json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS", "run_id": state.runID})
}

// fakePCM is a second of silence at 16-bit mono.
func fakePCM() []byte {
	return make([]byte, 44100)
}

func audioResultHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("🎵 RESULT %s", r.URL.Path)
	w.Header().Set("Content-Type", "application/wav")
	w.Write(fakePCM())
}

func routeTask(mux *http.ServeMux, base, resultBase string, result http.HandlerFunc) {
	mux.HandleFunc(base, submitHandler)
	mux.HandleFunc(base+"/", statusHandler)
	mux.HandleFunc(resultBase+"/", result)
}

func main() {
	mux := http.NewServeMux()

	mux.HandleFunc("/list-voices", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "voice_name": "Test Voice A", "gender": 1, "language": 1},
			{"id": 2, "voice_name": "Test Voice B", "gender": 2, "language": 54},
		})
	})

	mux.HandleFunc("/tts-stream", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🎤 TTS STREAM request")
		w.Header().Set("Content-Type", "application/wav")
		w.Write(fakePCM())
	})

	mux.HandleFunc("/create-custom-voice", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(50 << 20); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		log.Printf("🗣️  CLONE VOICE %q", r.FormValue("voice_name"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{"voice_id": 7777})
	})

	routeTask(mux, "/translated-tts", "/translated-tts-result", audioResultHandler)
	routeTask(mux, "/text-to-sound", "/text-to-sound-result", audioResultHandler)

	routeTask(mux, "/audio-separation", "/audio-separation-result", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"foreground_url": "http://localhost:9000/stems/foreground.wav",
			"background_url": "http://localhost:9000/stems/background.wav",
		})
	})
	mux.HandleFunc("/stems/", audioResultHandler)

	routeTask(mux, "/transcribe", "/transcription-result", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"start": 0.0, "end": 1.2, "text": "hello from the test server", "speaker": "SPEAKER_00"},
		})
	})

	routeTask(mux, "/translate", "/translation-result", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]string{"texts": {"hola desde el servidor de prueba"}})
	})

	routeTask(mux, "/text-to-voice", "/text-to-voice-result", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]string{
			"preview_urls": {"http://localhost:9000/stems/preview.wav"},
		})
	})

	port := ":9000"
	log.Printf("🚀 Test CAMB API Server starting on port %s", port)
	log.Printf("💡 Update your config to use: base_url: http://localhost%s", port)

	if err := http.ListenAndServe(port, mux); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
