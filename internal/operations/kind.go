package operations

import "fmt"

// Kind is the closed set of capabilities the batch runner dispatches on.
type Kind string

const (
	KindSynthesize    Kind = "synthesize"
	KindTranslatedTTS Kind = "translated_tts"
	KindSound         Kind = "sound"
	KindSeparate      Kind = "separate"
	KindTranscribe    Kind = "transcribe"
	KindTranslate     Kind = "translate"
	KindVoicePreview  Kind = "voice_preview"
	KindCloneVoice    Kind = "clone_voice"
	KindListVoices    Kind = "list_voices"
)

// ParseKind validates an operation name from a job file.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindSynthesize, KindTranslatedTTS, KindSound, KindSeparate,
		KindTranscribe, KindTranslate, KindVoicePreview, KindCloneVoice,
		KindListVoices:
		return Kind(raw), nil
	default:
		return "", fmt.Errorf("unknown operation %q", raw)
	}
}
