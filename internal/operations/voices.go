package operations

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Camb-ai/camb-go/internal/api"
)

// Voice is one entry of the account's voice catalog.
type Voice struct {
	ID        int64  `json:"id"`
	VoiceName string `json:"voice_name"`
	Gender    int    `json:"gender"`
	Language  int    `json:"language"`
}

// ListVoices fetches the voice catalog.
func (s *Service) ListVoices(ctx context.Context) ([]Voice, error) {
	resp, err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Target: "/list-voices"})
	if err != nil {
		return nil, err
	}
	var voices []Voice
	if err := resp.Decode(&voices); err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	return voices, nil
}

// VoicePreviewParams configures voice generation from a text description.
type VoicePreviewParams struct {
	VoiceName        string
	VoiceDescription string
	Text             string // optional sample text spoken in the previews
}

// VoicePreviews carries the generated preview samples, keyed under their
// output names.
type VoicePreviews struct {
	RunID   string
	Samples []*AudioArtifact
}

// voicePreviewResult is the wire shape of a text-to-voice result payload.
type voicePreviewResult struct {
	PreviewURLs []string `json:"preview_urls"`
}

// GenerateVoice submits a text-to-voice task and downloads every preview
// sample from its externally hosted URL.
func (s *Service) GenerateVoice(ctx context.Context, params VoicePreviewParams) (*VoicePreviews, error) {
	if err := validateVoiceDescription(params.VoiceDescription); err != nil {
		return nil, err
	}
	body := map[string]any{
		"voice_name":        params.VoiceName,
		"voice_description": params.VoiceDescription,
	}
	if params.Text != "" {
		if err := validateText("text", params.Text); err != nil {
			return nil, err
		}
		body["text"] = params.Text
	}

	envelope, err := s.runTask(ctx, "/text-to-voice", body, nil)
	if err != nil {
		return nil, err
	}

	var result voicePreviewResult
	if err := s.fetchJSON(ctx, "/text-to-voice-result/"+envelope.RunID, &result); err != nil {
		return nil, err
	}

	previews := &VoicePreviews{RunID: envelope.RunID}
	for i, previewURL := range result.PreviewURLs {
		payload, err := s.fetchBinary(ctx, previewURL)
		if err != nil {
			return nil, err
		}
		previews.Samples = append(previews.Samples, &AudioArtifact{
			Name:  fmt.Sprintf("preview_%d.wav", i+1),
			MIME:  "audio/wav",
			Data:  payload,
			RunID: envelope.RunID,
		})
	}
	return previews, nil
}

// CloneVoiceParams configures custom voice creation from reference audio.
type CloneVoiceParams struct {
	VoiceName   string
	Audio       []byte
	FileName    string
	Gender      int
	Description string
}

// CloneVoice uploads reference audio and registers a custom voice. This is
// a synchronous capability; the response carries the new voice id directly.
func (s *Service) CloneVoice(ctx context.Context, params CloneVoiceParams) (int64, error) {
	if params.VoiceName == "" {
		return 0, &ValidationError{Field: "voice_name", Message: "voice name is required"}
	}
	if err := validateAudioInput("audio", params.Audio); err != nil {
		return 0, err
	}
	fileName := params.FileName
	if fileName == "" {
		fileName = "reference.wav"
	}

	form := api.NewForm().
		Set("voice_name", params.VoiceName).
		AttachFile("file", fileName, params.Audio)
	if params.Gender > 0 {
		form.Set("gender", strconv.Itoa(params.Gender))
	}
	if params.Description != "" {
		form.Set("description", params.Description)
	}

	resp, err := s.client.Do(ctx, api.Request{
		Method:  http.MethodPost,
		Target:  "/create-custom-voice",
		Form:    form,
		Options: api.Options{Timeout: syncTimeout},
	})
	if err != nil {
		return 0, err
	}

	var created struct {
		VoiceID int64 `json:"voice_id"`
	}
	if err := resp.Decode(&created); err != nil {
		return 0, fmt.Errorf("create custom voice: %w", err)
	}
	if created.VoiceID == 0 {
		return 0, fmt.Errorf("create custom voice: response carried no voice id")
	}
	return created.VoiceID, nil
}
