package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"homeboard/internal/domain"
)

// FileSource reads the roster from a local JSON or YAML file with the same
// shape as the API response.
type FileSource struct {
	Path string
}

// NewFileSource creates a file source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// String identifies the source in logs and events
func (f *FileSource) String() string {
	return f.Path
}

// FetchStudents reads and decodes the file. The file is read on every call.
func (f *FileSource) FetchStudents(ctx context.Context) (*domain.StudentsPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("api: read students file: %w", err)
	}

	var payload domain.StudentsPayload
	switch ext := strings.ToLower(filepath.Ext(f.Path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("api: decode %s: %w", f.Path, err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("api: decode %s: %w", f.Path, err)
		}
	default:
		return nil, fmt.Errorf("api: unsupported students file type %q", ext)
	}
	return &payload, nil
}
