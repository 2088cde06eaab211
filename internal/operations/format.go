package operations

import (
	"fmt"
	"strings"
)

// OutputFormat is the audio container requested from the API. Raw PCM is the
// only format that needs local assembly; everything else arrives complete.
type OutputFormat string

const (
	FormatWAV  OutputFormat = "wav"
	FormatFLAC OutputFormat = "flac"
	FormatADTS OutputFormat = "adts"
	FormatPCM  OutputFormat = "pcm"
)

// ParseOutputFormat normalizes a requested format string. PCM variants such
// as pcm_s16le collapse to FormatPCM. Empty input defaults to WAV.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case normalized == "" || normalized == "wav":
		return FormatWAV, nil
	case normalized == "flac":
		return FormatFLAC, nil
	case normalized == "adts" || normalized == "aac":
		return FormatADTS, nil
	case strings.HasPrefix(normalized, "pcm"):
		return FormatPCM, nil
	default:
		return "", &ValidationError{Field: "output_format", Message: fmt.Sprintf("unsupported output format %q", raw)}
	}
}

// MIME returns the media type of the final payload. Raw PCM is wrapped into
// a WAV container before it reaches the caller, so it reports audio/wav.
func (f OutputFormat) MIME() string {
	switch f {
	case FormatFLAC:
		return "audio/flac"
	case FormatADTS:
		return "audio/aac"
	default:
		return "audio/wav"
	}
}

// Extension returns the file extension of the final payload.
func (f OutputFormat) Extension() string {
	switch f {
	case FormatFLAC:
		return "flac"
	case FormatADTS:
		return "aac"
	default:
		return "wav"
	}
}
