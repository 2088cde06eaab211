package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Camb-ai/camb-go/internal/operations"
)

// Item is one unit of work in a job file. Operation selects the capability;
// the remaining fields carry its parameters and unused ones stay zero.
type Item struct {
	Operation string `yaml:"operation"`

	Text  string   `yaml:"text,omitempty"`
	Texts []string `yaml:"texts,omitempty"`

	VoiceID          int64  `yaml:"voice_id,omitempty"`
	VoiceName        string `yaml:"voice_name,omitempty"`
	VoiceDescription string `yaml:"voice_description,omitempty"`
	Gender           int    `yaml:"gender,omitempty"`

	Language       int `yaml:"language,omitempty"`
	SourceLanguage int `yaml:"source_language,omitempty"`
	TargetLanguage int `yaml:"target_language,omitempty"`

	OutputFormat string `yaml:"output_format,omitempty"`
	SampleRate   int    `yaml:"sample_rate,omitempty"`

	Prompt          string `yaml:"prompt,omitempty"`
	DurationSeconds int    `yaml:"duration_seconds,omitempty"`

	// AudioFile is a local path; its contents are uploaded for operations
	// that take audio input.
	AudioFile string `yaml:"audio_file,omitempty"`
}

// Job is a parsed job file.
type Job struct {
	Items []Item `yaml:"items"`
}

// Validate checks that every item names a known operation.
func (j *Job) Validate() error {
	if len(j.Items) == 0 {
		return fmt.Errorf("job contains no items")
	}
	for i, item := range j.Items {
		if _, err := operations.ParseKind(item.Operation); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// LoadJob reads and validates a YAML job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job file: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job file: %w", err)
	}
	return &job, nil
}
