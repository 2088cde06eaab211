package operations

import (
	"context"
	"strconv"
	"strings"

	"github.com/Camb-ai/camb-go/internal/api"
)

// TranscribeParams configures audio transcription.
type TranscribeParams struct {
	Audio    []byte
	FileName string
	Language int
}

// TranscriptSegment is one time-aligned span of transcribed speech.
type TranscriptSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Transcription is the structured result of a transcription task.
type Transcription struct {
	RunID    string              `json:"run_id"`
	Segments []TranscriptSegment `json:"segments"`
}

// FullText joins all segment texts in order.
func (t *Transcription) FullText() string {
	parts := make([]string, 0, len(t.Segments))
	for _, segment := range t.Segments {
		if trimmed := strings.TrimSpace(segment.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// Transcribe uploads an audio file, waits for the transcription task, and
// fetches the transcript segments by run id.
func (s *Service) Transcribe(ctx context.Context, params TranscribeParams) (*Transcription, error) {
	if err := validateAudioInput("audio", params.Audio); err != nil {
		return nil, err
	}
	fileName := params.FileName
	if fileName == "" {
		fileName = "input.wav"
	}

	form := api.NewForm().AttachFile("file", fileName, params.Audio)
	if params.Language > 0 {
		form.Set("language", strconv.Itoa(params.Language))
	}

	envelope, err := s.runTask(ctx, "/transcribe", nil, form)
	if err != nil {
		return nil, err
	}

	var segments []TranscriptSegment
	if err := s.fetchJSON(ctx, "/transcription-result/"+envelope.RunID, &segments); err != nil {
		return nil, err
	}
	return &Transcription{RunID: envelope.RunID, Segments: segments}, nil
}

// TranslateParams configures text translation.
type TranslateParams struct {
	Texts          []string
	SourceLanguage int
	TargetLanguage int
}

// Translation is the structured result of a translation task.
type Translation struct {
	RunID string   `json:"run_id"`
	Texts []string `json:"texts"`
}

// translationResult is the wire shape of a translation result payload.
type translationResult struct {
	Texts []string `json:"texts"`
}

// Translate submits a translation task for one or more texts and fetches
// the translated list by run id.
func (s *Service) Translate(ctx context.Context, params TranslateParams) (*Translation, error) {
	if len(params.Texts) == 0 {
		return nil, &ValidationError{Field: "texts", Message: "at least one text is required"}
	}
	for _, text := range params.Texts {
		if err := validateText("texts", text); err != nil {
			return nil, err
		}
	}

	envelope, err := s.runTask(ctx, "/translate", map[string]any{
		"texts":           params.Texts,
		"source_language": params.SourceLanguage,
		"target_language": params.TargetLanguage,
	}, nil)
	if err != nil {
		return nil, err
	}

	var result translationResult
	if err := s.fetchJSON(ctx, "/translation-result/"+envelope.RunID, &result); err != nil {
		return nil, err
	}
	return &Translation{RunID: envelope.RunID, Texts: result.Texts}, nil
}
