package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Camb-ai/camb-go/internal/metrics"
	"github.com/Camb-ai/camb-go/internal/operations"
)

// Output is one stored payload produced by an item.
type Output struct {
	Name   string `json:"name"`
	MIME   string `json:"mime"`
	Handle string `json:"handle"`
	Bytes  int    `json:"bytes"`
}

// Result is the output record of one item. Index always matches the item's
// position in the job, including on failure.
type Result struct {
	Index   int             `json:"index"`
	Kind    operations.Kind `json:"operation"`
	RunID   string          `json:"run_id,omitempty"`
	Outputs []Output        `json:"outputs,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Stats is a snapshot of runner progress for the monitoring server.
type Stats struct {
	ItemsProcessed int        `json:"items_processed"`
	ItemsFailed    int        `json:"items_failed"`
	LastItemAt     *time.Time `json:"last_item_at,omitempty"`
}

// Runner processes job items strictly sequentially. Each item completes its
// whole pipeline, including polling, before the next begins.
type Runner struct {
	service        *operations.Service
	sink           Sink
	logger         *slog.Logger
	metrics        *metrics.Metrics
	continueOnFail bool

	mu    sync.Mutex
	stats Stats
}

// Option customizes the runner.
type Option func(*Runner)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithContinueOnFail turns item errors into error records instead of
// aborting the batch.
func WithContinueOnFail(enabled bool) Option {
	return func(r *Runner) {
		r.continueOnFail = enabled
	}
}

// NewRunner creates a batch runner.
func NewRunner(service *operations.Service, sink Sink, opts ...Option) *Runner {
	r := &Runner{
		service: service,
		sink:    sink,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats returns a snapshot of runner progress.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Run processes every item in order. Without continue-on-fail the first
// item error aborts the batch; the results produced so far are returned
// alongside the error, the failing item included as an error record.
func (r *Runner) Run(ctx context.Context, job *Job) ([]Result, error) {
	results := make([]Result, 0, len(job.Items))
	for i, item := range job.Items {
		start := time.Now()
		result := r.runItem(ctx, i, item)
		elapsed := time.Since(start)

		failed := result.Error != ""
		r.metrics.RecordBatchItem(failed, elapsed.Seconds())
		r.recordStats(failed)
		results = append(results, result)

		if failed {
			r.logger.Error("batch item failed",
				slog.Int("index", i),
				slog.String("operation", item.Operation),
				slog.String("error", result.Error),
			)
			if !r.continueOnFail {
				return results, fmt.Errorf("item %d (%s): %s", i, item.Operation, result.Error)
			}
			continue
		}
		r.logger.Info("batch item completed",
			slog.Int("index", i),
			slog.String("operation", item.Operation),
			slog.String("run_id", result.RunID),
			slog.Duration("elapsed", elapsed),
		)
	}
	return results, nil
}

func (r *Runner) recordStats(failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.stats.ItemsProcessed++
	if failed {
		r.stats.ItemsFailed++
	}
	r.stats.LastItemAt = &now
}

// runItem dispatches one item to its capability handler. Errors are folded
// into the result record so the index correlation survives failure.
func (r *Runner) runItem(ctx context.Context, index int, item Item) Result {
	kind, err := operations.ParseKind(item.Operation)
	if err != nil {
		return Result{Index: index, Error: err.Error()}
	}
	result := Result{Index: index, Kind: kind}

	switch kind {
	case operations.KindSynthesize:
		artifact, err := r.service.Synthesize(ctx, operations.SynthesizeParams{
			Text:         item.Text,
			VoiceID:      item.VoiceID,
			Language:     item.Language,
			OutputFormat: item.OutputFormat,
			SampleRate:   item.SampleRate,
		})
		return r.finishArtifact(result, artifact, err)

	case operations.KindTranslatedTTS:
		artifact, err := r.service.TranslatedTTS(ctx, operations.TranslatedTTSParams{
			Text:           item.Text,
			VoiceID:        item.VoiceID,
			SourceLanguage: item.SourceLanguage,
			TargetLanguage: item.TargetLanguage,
			OutputFormat:   item.OutputFormat,
			SampleRate:     item.SampleRate,
		})
		return r.finishArtifact(result, artifact, err)

	case operations.KindSound:
		artifact, err := r.service.GenerateSound(ctx, operations.SoundParams{
			Prompt:          item.Prompt,
			DurationSeconds: item.DurationSeconds,
			OutputFormat:    item.OutputFormat,
			SampleRate:      item.SampleRate,
		})
		return r.finishArtifact(result, artifact, err)

	case operations.KindSeparate:
		audio, err := r.loadAudio(item)
		if err != nil {
			return fail(result, err)
		}
		separated, err := r.service.SeparateAudio(ctx, operations.SeparationParams{
			Audio:    audio,
			FileName: filepath.Base(item.AudioFile),
		})
		if err != nil {
			return fail(result, err)
		}
		result.RunID = separated.RunID
		for _, artifact := range []*operations.AudioArtifact{separated.Foreground, separated.Background} {
			if err := r.store(&result, artifact.Name, artifact.Data, artifact.MIME); err != nil {
				return fail(result, err)
			}
		}
		return result

	case operations.KindTranscribe:
		audio, err := r.loadAudio(item)
		if err != nil {
			return fail(result, err)
		}
		transcript, err := r.service.Transcribe(ctx, operations.TranscribeParams{
			Audio:    audio,
			FileName: filepath.Base(item.AudioFile),
			Language: item.Language,
		})
		if err != nil {
			return fail(result, err)
		}
		result.RunID = transcript.RunID
		return r.storeJSON(result, "transcription.json", transcript)

	case operations.KindTranslate:
		translation, err := r.service.Translate(ctx, operations.TranslateParams{
			Texts:          item.Texts,
			SourceLanguage: item.SourceLanguage,
			TargetLanguage: item.TargetLanguage,
		})
		if err != nil {
			return fail(result, err)
		}
		result.RunID = translation.RunID
		return r.storeJSON(result, "translation.json", translation)

	case operations.KindVoicePreview:
		previews, err := r.service.GenerateVoice(ctx, operations.VoicePreviewParams{
			VoiceName:        item.VoiceName,
			VoiceDescription: item.VoiceDescription,
			Text:             item.Text,
		})
		if err != nil {
			return fail(result, err)
		}
		result.RunID = previews.RunID
		for _, sample := range previews.Samples {
			if err := r.store(&result, sample.Name, sample.Data, sample.MIME); err != nil {
				return fail(result, err)
			}
		}
		return result

	case operations.KindCloneVoice:
		audio, err := r.loadAudio(item)
		if err != nil {
			return fail(result, err)
		}
		voiceID, err := r.service.CloneVoice(ctx, operations.CloneVoiceParams{
			VoiceName:   item.VoiceName,
			Audio:       audio,
			FileName:    filepath.Base(item.AudioFile),
			Gender:      item.Gender,
			Description: item.VoiceDescription,
		})
		if err != nil {
			return fail(result, err)
		}
		return r.storeJSON(result, "voice.json", map[string]int64{"voice_id": voiceID})

	case operations.KindListVoices:
		voices, err := r.service.ListVoices(ctx)
		if err != nil {
			return fail(result, err)
		}
		return r.storeJSON(result, "voices.json", voices)

	default:
		return fail(result, fmt.Errorf("unhandled operation %q", kind))
	}
}

func (r *Runner) finishArtifact(result Result, artifact *operations.AudioArtifact, err error) Result {
	if err != nil {
		return fail(result, err)
	}
	result.RunID = artifact.RunID
	if err := r.store(&result, artifact.Name, artifact.Data, artifact.MIME); err != nil {
		return fail(result, err)
	}
	return result
}

func (r *Runner) store(result *Result, name string, data []byte, mime string) error {
	handle, err := r.sink.Put(name, data, mime)
	if err != nil {
		return err
	}
	result.Outputs = append(result.Outputs, Output{Name: name, MIME: mime, Handle: handle, Bytes: len(data)})
	return nil
}

func (r *Runner) storeJSON(result Result, name string, payload any) Result {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fail(result, err)
	}
	if err := r.store(&result, name, data, "application/json"); err != nil {
		return fail(result, err)
	}
	return result
}

func (r *Runner) loadAudio(item Item) ([]byte, error) {
	if item.AudioFile == "" {
		return nil, fmt.Errorf("audio_file is required for %s", item.Operation)
	}
	data, err := os.ReadFile(item.AudioFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	return data, nil
}

func fail(result Result, err error) Result {
	result.Error = err.Error()
	return result
}
