package operations

import (
	"fmt"
	"unicode/utf8"
)

// Input length constraints enforced before any network call.
const (
	MinTextLength             = 3
	MaxTextLength             = 3000
	MinVoiceDescriptionLength = 100
)

// ValidationError is an input constraint violation. It is raised before the
// first network call and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// validateText enforces the [MinTextLength, MaxTextLength] character bound.
func validateText(field, text string) error {
	length := utf8.RuneCountInString(text)
	if length < MinTextLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters, got %d", MinTextLength, length),
		}
	}
	if length > MaxTextLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters, got %d", MaxTextLength, length),
		}
	}
	return nil
}

// validateVoiceDescription enforces the minimum descriptive length required
// for voice generation.
func validateVoiceDescription(description string) error {
	length := utf8.RuneCountInString(description)
	if length < MinVoiceDescriptionLength {
		return &ValidationError{
			Field:   "voice_description",
			Message: fmt.Sprintf("must be at least %d characters, got %d", MinVoiceDescriptionLength, length),
		}
	}
	return nil
}

// validateAudioInput rejects empty upload payloads.
func validateAudioInput(field string, data []byte) error {
	if len(data) == 0 {
		return &ValidationError{Field: field, Message: "audio payload is empty"}
	}
	return nil
}
