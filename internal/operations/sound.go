package operations

import (
	"context"

	"github.com/Camb-ai/camb-go/internal/api"
)

// SoundParams configures text-to-sound generation.
type SoundParams struct {
	Prompt          string
	DurationSeconds int
	OutputFormat    string
	SampleRate      int
}

// GenerateSound submits a sound generation task and downloads the produced
// audio once the task succeeds.
func (s *Service) GenerateSound(ctx context.Context, params SoundParams) (*AudioArtifact, error) {
	if err := validateText("prompt", params.Prompt); err != nil {
		return nil, err
	}
	format, err := ParseOutputFormat(params.OutputFormat)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"prompt":        params.Prompt,
		"output_format": params.OutputFormat,
	}
	if params.DurationSeconds > 0 {
		body["duration"] = params.DurationSeconds
	}

	envelope, err := s.runTask(ctx, "/text-to-sound", body, nil)
	if err != nil {
		return nil, err
	}

	payload, err := s.fetchBinary(ctx, "/text-to-sound-result/"+envelope.RunID)
	if err != nil {
		return nil, err
	}
	return s.assembleAudio("sound", envelope.RunID, payload, format, params.SampleRate), nil
}

// SeparationParams configures audio source separation.
type SeparationParams struct {
	Audio    []byte
	FileName string
}

// SeparationResult carries the separated stems, keyed by their role.
type SeparationResult struct {
	RunID      string
	Foreground *AudioArtifact
	Background *AudioArtifact
}

// separationURLs is the structured result payload of a separation task. The
// URLs are pre-authorized and fetched without credentials.
type separationURLs struct {
	ForegroundURL string `json:"foreground_url"`
	BackgroundURL string `json:"background_url"`
}

// SeparateAudio uploads an audio file, waits for the separation task, and
// downloads both stems from their externally hosted result URLs.
func (s *Service) SeparateAudio(ctx context.Context, params SeparationParams) (*SeparationResult, error) {
	if err := validateAudioInput("audio", params.Audio); err != nil {
		return nil, err
	}
	fileName := params.FileName
	if fileName == "" {
		fileName = "input.wav"
	}

	form := api.NewForm().AttachFile("file", fileName, params.Audio)
	envelope, err := s.runTask(ctx, "/audio-separation", nil, form)
	if err != nil {
		return nil, err
	}

	var urls separationURLs
	if err := s.fetchJSON(ctx, "/audio-separation-result/"+envelope.RunID, &urls); err != nil {
		return nil, err
	}

	foreground, err := s.fetchBinary(ctx, urls.ForegroundURL)
	if err != nil {
		return nil, err
	}
	background, err := s.fetchBinary(ctx, urls.BackgroundURL)
	if err != nil {
		return nil, err
	}

	return &SeparationResult{
		RunID:      envelope.RunID,
		Foreground: &AudioArtifact{Name: "foreground.wav", MIME: "audio/wav", Data: foreground, RunID: envelope.RunID},
		Background: &AudioArtifact{Name: "background.wav", MIME: "audio/wav", Data: background, RunID: envelope.RunID},
	}, nil
}
