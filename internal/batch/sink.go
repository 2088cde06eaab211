package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Sink receives result payloads. Put returns an opaque handle the host can
// use to locate the stored payload.
type Sink interface {
	Put(name string, data []byte, mime string) (string, error)
}

// FileSink stores payloads as files in a single output directory. Names are
// prefixed with a random id so repeated items never overwrite each other.
type FileSink struct {
	dir string
}

// NewFileSink creates the output directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Put writes the payload and returns its path.
func (s *FileSink) Put(name string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, uuid.NewString()[:8]+"_"+filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
