package operations

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Camb-ai/camb-go/internal/api"
	"github.com/Camb-ai/camb-go/internal/audio"
)

// SynthesizeParams configures direct speech synthesis.
type SynthesizeParams struct {
	Text         string
	VoiceID      int64
	Language     int
	OutputFormat string
	SampleRate   int // raw PCM only; zero uses the container default
}

// Synthesize streams synthesized speech in a single call. Raw PCM responses
// are wrapped into a WAV container before they reach the caller.
func (s *Service) Synthesize(ctx context.Context, params SynthesizeParams) (*AudioArtifact, error) {
	if err := validateText("text", params.Text); err != nil {
		return nil, err
	}
	format, err := ParseOutputFormat(params.OutputFormat)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Target: "/tts-stream",
		Body: map[string]any{
			"text":          params.Text,
			"voice_id":      params.VoiceID,
			"language":      params.Language,
			"output_format": params.OutputFormat,
		},
		Options: api.Options{Timeout: syncTimeout, Binary: true},
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordArtifact(len(resp.Body))

	return s.assembleAudio("synthesis", "", resp.Body, format, params.SampleRate), nil
}

// TranslatedTTSParams configures speech synthesis in a target language from
// source-language text.
type TranslatedTTSParams struct {
	Text           string
	VoiceID        int64
	SourceLanguage int
	TargetLanguage int
	OutputFormat   string
	SampleRate     int
}

// TranslatedTTS submits a translated synthesis task, waits for it, and
// downloads the resulting audio by run id.
func (s *Service) TranslatedTTS(ctx context.Context, params TranslatedTTSParams) (*AudioArtifact, error) {
	if err := validateText("text", params.Text); err != nil {
		return nil, err
	}
	format, err := ParseOutputFormat(params.OutputFormat)
	if err != nil {
		return nil, err
	}

	envelope, err := s.runTask(ctx, "/translated-tts", map[string]any{
		"text":            params.Text,
		"voice_id":        params.VoiceID,
		"source_language": params.SourceLanguage,
		"target_language": params.TargetLanguage,
		"output_format":   params.OutputFormat,
	}, nil)
	if err != nil {
		return nil, err
	}

	payload, err := s.fetchBinary(ctx, "/translated-tts-result/"+envelope.RunID)
	if err != nil {
		return nil, err
	}
	return s.assembleAudio("translated-tts", envelope.RunID, payload, format, params.SampleRate), nil
}

// assembleAudio finalizes a downloaded audio payload: raw PCM gets the WAV
// container, everything else passes through with its derived metadata.
func (s *Service) assembleAudio(name, runID string, payload []byte, format OutputFormat, sampleRate int) *AudioArtifact {
	if format == FormatPCM {
		payload = audio.WrapPCM(payload, audio.Format{SampleRate: sampleRate})
	}
	return &AudioArtifact{
		Name:  fmt.Sprintf("%s.%s", name, format.Extension()),
		MIME:  format.MIME(),
		Data:  payload,
		RunID: runID,
	}
}
