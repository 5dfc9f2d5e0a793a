package classifier

import (
	"fmt"
	"os"
)

// Source provides the raw bytes of a model artifact
type Source interface {
	// Fetch returns the serialized artifact
	Fetch() ([]byte, error)

	// Describe names the source in errors and logs
	Describe() string
}

// FileSource reads an artifact from a local path
type FileSource struct {
	Path string
}

// NewFileSource creates a source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Fetch reads the whole file
func (s *FileSource) Fetch() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return data, nil
}

// Describe returns the file path
func (s *FileSource) Describe() string {
	return "file " + s.Path
}
