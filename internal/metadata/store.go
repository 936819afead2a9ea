package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrReadFailed indicates the sidecar is missing, malformed, or missing a
// required field. Unknown extra fields are ignored for forward compatibility.
var ErrReadFailed = errors.New("metadata: read failed")

// Write serializes the document and atomically replaces the sidecar at
// path. The record is written to a temporary file in the same directory
// and renamed over the destination, so a reader never observes a partial
// write.
func Write(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Read parses the sidecar at path.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, path, err)
	}

	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, path, err)
	}

	return &doc, nil
}
